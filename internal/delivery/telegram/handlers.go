package telegram

import (
	"context"
	"errors"

	"github.com/aminhilali/minaret/internal/domain"
	"github.com/aminhilali/minaret/internal/usecase"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handlers struct {
	scheduler *usecase.AlertScheduler
	logger    *zap.Logger
}

func NewHandlers(scheduler *usecase.AlertScheduler, logger *zap.Logger) *Handlers {
	return &Handlers{scheduler: scheduler, logger: logger}
}

func (h *Handlers) HandleUpdate(ctx context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	if update.Message.From == nil {
		return
	}
	if update.Message.IsCommand() {
		h.handleCommand(ctx, api, update)
		return
	}
}

func (h *Handlers) handleCommand(_ context.Context, api *tgbotapi.BotAPI, update tgbotapi.Update) {
	command := update.Message.Command()
	chatID := update.Message.Chat.ID

	h.logger.Info(
		"telegram command received",
		zap.Int64("chat_id", chatID),
		zap.String("command", command),
	)

	switch command {
	case "start":
		h.reply(api, chatID, "Welcome to Minaret.\n\n"+HelpText)
	case "help":
		h.reply(api, chatID, HelpText)
	case "today":
		schedule := h.scheduler.Schedule()
		if schedule == nil {
			h.reply(api, chatID, "No schedule loaded yet. Try again shortly.")
			return
		}
		h.reply(api, chatID, formatSchedule(schedule))
	case "next":
		transition, err := h.scheduler.CurrentTransition()
		if err != nil {
			if errors.Is(err, domain.ErrNoSchedule) {
				h.reply(api, chatID, "No schedule loaded yet. Try again shortly.")
				return
			}
			h.logger.Warn("next command failed", zap.Int64("chat_id", chatID), zap.Error(err))
			h.reply(api, chatID, "Something went wrong. Try again later.")
			return
		}
		h.reply(api, chatID, formatTransition(transition))
	default:
		h.reply(api, chatID, "Unknown command.\n\n"+HelpText)
	}
}

func (h *Handlers) reply(api *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := api.Send(msg); err != nil {
		h.logger.Warn("failed to send telegram reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
