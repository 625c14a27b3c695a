package notify

import (
	"fmt"

	"chorequest/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Config struct {
	BotToken    string `yaml:"botToken"`
	AdminChatID int64  `yaml:"adminChatID"`
	Enabled     bool   `yaml:"enabled"`
}

// Notifier pings the admin chat when something lands in a review queue.
// Delivery is best effort: failures are logged and never fail the
// request that triggered them.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func New(cfg Config) (*Notifier, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	return &Notifier{
		bot:    bot,
		chatID: cfg.AdminChatID,
	}, nil
}

func (n *Notifier) SubmissionPending(kidName, choreTitle string) {
	n.send(fmt.Sprintf("%s finished %q and is waiting for review", kidName, choreTitle))
}

func (n *Notifier) QuestTaskPending(kidName, taskTitle string) {
	n.send(fmt.Sprintf("%s submitted quest task %q for review", kidName, taskTitle))
}

func (n *Notifier) RedemptionRequested(kidName, rewardTitle string, cost int) {
	n.send(fmt.Sprintf("%s wants to redeem %q for %d points", kidName, rewardTitle, cost))
}

func (n *Notifier) send(text string) {
	if n == nil {
		return
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		logger.Logger().Warn("failed to send admin notification", zap.Error(err))
	}
}
