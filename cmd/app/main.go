package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"chorequest/internal/api"
	"chorequest/internal/middleware"
	"chorequest/internal/notify"
	"chorequest/internal/repository"
	"chorequest/internal/service"
	"chorequest/pkg/auth"
	"chorequest/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	kidService := service.NewKidService(repo)
	choreService := service.NewChoreService(repo)
	submissionService := service.NewSubmissionService(repo, service.ParseStreakPolicy(cfg.Economy.StreakPolicy))
	questService := service.NewQuestService(repo)
	rewardService := service.NewRewardService(repo)

	tokenAuth := auth.NewTokenAuth(cfg.Auth.AdminKey, kidService)

	notifier, err := notify.New(cfg.Telegram)
	if err != nil {
		zapLogger.Fatal("Failed to initialize notifier", zap.Error(err))
	}

	hub := api.NewEventHub()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	a := router.Group("/api/v1")
	api.NewKidRoutes(a, kidService, tokenAuth)
	api.NewChoreRoutes(a, choreService, tokenAuth)
	api.NewSubmissionRoutes(a, submissionService, tokenAuth, notifier, hub)
	api.NewQuestRoutes(a, questService, tokenAuth, notifier, hub)
	api.NewRewardRoutes(a, rewardService, tokenAuth, notifier, hub)
	api.NewEventRoutes(a, hub, tokenAuth)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
