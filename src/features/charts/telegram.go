package charts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/contre95/resonate/src/music"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramHandler handles Telegram commands for the charts feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the charts feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes charts-related Telegram commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "top":
		return h.handleTop(bot, chatID, args)
	case "recent":
		return h.handleRecent(bot, chatID)
	default:
		msg := tgbotapi.NewMessage(chatID, "❌ Unknown charts command. Use /top or /recent")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"top":    "Show top artists (optionally pass a period: 7day, 1month, 3month, 6month, 12month)",
		"recent": "Show the latest plays",
	}
}

// HandleCallback handles callback queries for this feature (charts has no callbacks)
func (h *TelegramHandler) HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	return false
}

// handleTop sends the top artists chart
func (h *TelegramHandler) handleTop(bot *tgbotapi.BotAPI, chatID int64, args string) error {
	period := music.ParsePeriod(strings.TrimSpace(args))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	chart, err := h.service.TopArtists(ctx, period, 10)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to load the chart")
		bot.Send(msg)
		return err
	}

	if len(chart) == 0 {
		bot.Send(tgbotapi.NewMessage(chatID, "No plays recorded yet."))
		return nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎵 *Top Artists (%s)*\n\n", period))
	for i, row := range chart {
		sb.WriteString(fmt.Sprintf("%d. %s — %d plays\n", i+1, row.Name, row.Playcount))
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
	return nil
}

// handleRecent sends the latest plays
func (h *TelegramHandler) handleRecent(bot *tgbotapi.BotAPI, chatID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	plays, err := h.service.RecentPlays(ctx, 10)
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, "❌ Failed to load recent plays")
		bot.Send(msg)
		return err
	}

	if len(plays) == 0 {
		bot.Send(tgbotapi.NewMessage(chatID, "No plays recorded yet."))
		return nil
	}

	var sb strings.Builder
	sb.WriteString("🕑 *Recent Plays*\n\n")
	for _, play := range plays {
		when := time.Unix(play.Timestamp, 0).UTC().Format("Jan 2 15:04")
		sb.WriteString(fmt.Sprintf("%s — %s (%s)\n", play.Artist, play.Track, when))
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
	return nil
}
