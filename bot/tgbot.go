// Package bot is the Telegram side of a registration bot.
//
// Files:
//   - tgbot.go: TgBot struct, lifecycle (Start/Stop) for long polling
//   - gateway.go: outbound calls used by the flows (send, membership, copy, callback answer)
//   - keyboard.go: entity.Keyboard to gotgbot markup conversion
//   - update.go: gotgbot.Update to entity.Update conversion
//   - menus.go: command menus via Telegram's BotCommandScope API
//   - messaging.go: admin notifications from the slog handler
//
// In webhook mode updates arrive through internal/http-server and only the gateway
// part is used; in polling mode Start feeds every update to the UpdateHandler.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"regbot/entity"
	"regbot/lib/sl"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/callbackquery"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"
)

const requestTimeout = 10 * time.Second

// UpdateHandler consumes converted updates. Implemented by impl/core.App.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, u *entity.Update) error
}

// TgBot wraps one bot token; the general and the study center bots are separate instances.
type TgBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	adminId     int64
	minLogLevel slog.Level
	updater     *ext.Updater
	handler     UpdateHandler
}

func NewTgBot(apiKey string, adminId int64, log *slog.Logger) (*TgBot, error) {
	tgBot := &TgBot{
		log:         log.With(sl.Module("tgbot")),
		adminId:     adminId,
		minLogLevel: slog.LevelError,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api
	tgBot.log = tgBot.log.With(slog.String("bot", api.Username))

	return tgBot, nil
}

func (t *TgBot) SetHandler(handler UpdateHandler) {
	t.handler = handler
}

// Start runs long polling until Stop is called.
func (t *TgBot) Start() error {
	if t.handler == nil {
		return fmt.Errorf("update handler not set")
	}

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.Error("handling update:", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	t.updater = ext.NewUpdater(dispatcher, nil)

	dispatcher.AddHandler(handlers.NewCallback(callbackquery.All, t.onUpdate))
	dispatcher.AddHandler(handlers.NewMessage(message.All, t.onUpdate))

	err := t.updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}
	t.log.Info("polling started")

	t.updater.Idle()
	return nil
}

func (t *TgBot) Stop() {
	if t.updater != nil {
		t.log.Info("stopping telegram bot")
		t.updater.Stop()
	}
}

func (t *TgBot) onUpdate(_ *tgbotapi.Bot, ctx *ext.Context) error {
	u := UpdateFromTelegram(ctx.Update)
	if u == nil {
		return nil
	}
	return t.handler.HandleUpdate(context.Background(), u)
}
