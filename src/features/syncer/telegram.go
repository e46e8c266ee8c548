package syncer

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramHandler handles Telegram commands for the syncer feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the syncer feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes syncer-related Telegram commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "sync":
		return h.handleSync(bot, chatID)
	default:
		msg := tgbotapi.NewMessage(chatID, "❌ Unknown syncer command. Use /sync")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"sync": "Pull new scrobbles from last.fm now",
	}
}

// HandleCallback handles callback queries for this feature (syncer has no callbacks)
func (h *TelegramHandler) HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	return false
}

// handleSync triggers a sync run and reports the outcome
func (h *TelegramHandler) handleSync(bot *tgbotapi.BotAPI, chatID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := h.service.RunOnce(ctx)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Sync failed"))
		return err
	}

	message := fmt.Sprintf("🔄 *Sync complete*\n\nInserted: %d\nSkipped: %d", report.Inserted, report.Skipped)
	msg := tgbotapi.NewMessage(chatID, message)
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
	return nil
}
