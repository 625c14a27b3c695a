package main

import (
	"fmt"
	"strings"

	"chorequest/internal/notify"
	"chorequest/internal/repository"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `yaml:"database"`
	Server   ServerConfig      `yaml:"server"`

	Auth     AuthConfig    `yaml:"auth"`
	Telegram notify.Config `yaml:"telegram"`
	Economy  EconomyConfig `yaml:"economy"`

	LogLevel string `yaml:"logLevel"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type AuthConfig struct {
	AdminKey string `yaml:"adminKey"`
}

type EconomyConfig struct {
	// StreakPolicy is "forgiving" or "strict".
	StreakPolicy string `yaml:"streakPolicy"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.AdminKey == "" {
		return nil, fmt.Errorf("auth.adminKey must be set")
	}

	return &cfg, nil
}
