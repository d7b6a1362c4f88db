package core

import (
	"context"
	"fmt"
	"log/slog"
	"regbot/entity"
	"regbot/impl/flow"
	"regbot/lib/sl"
	"runtime/debug"
)

const textFallback = "Xatolik yuz berdi. /start buyrug'ini bosing."

type Gateway interface {
	SendMessage(ctx context.Context, chatId int64, text string, kb *entity.Keyboard) error
	AnswerCallback(ctx context.Context, callbackId string) error
}

type Machine interface {
	Flow() entity.Flow
	Handle(ctx context.Context, u *entity.Update) error
}

type Admin interface {
	IsAdmin(chatId int64) bool
	Handle(ctx context.Context, u *entity.Update) error
}

// App is one bot: its state machine, its admin surface and its gateway.
type App struct {
	machine Machine
	admin   Admin
	gateway Gateway
	log     *slog.Logger
}

// NewApp wires one bot; admin may be nil when no admin chat is configured.
func NewApp(machine Machine, admin Admin, gateway Gateway, log *slog.Logger) *App {
	return &App{
		machine: machine,
		admin:   admin,
		gateway: gateway,
		log:     log.With(sl.Module("core.app"), slog.String("flow", string(machine.Flow()))),
	}
}

func (a *App) Flow() entity.Flow {
	return a.machine.Flow()
}

// HandleUpdate is the per-update entry point:
//
//	callback? answer it → /restart → admin chat? dispatcher → state machine
//
// A failure in the state machine is logged and the user gets the generic fallback.
func (a *App) HandleUpdate(ctx context.Context, u *entity.Update) (err error) {
	if u == nil {
		return nil
	}
	log := a.log.With(slog.Int64("chat_id", u.ChatId), slog.Int64("update_id", u.UpdateId))

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while handling update",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			a.reply(ctx, u.ChatId, textFallback)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if u.IsCallback() {
		if err := a.gateway.AnswerCallback(ctx, u.Callback.Id); err != nil {
			log.Warn("answering callback", sl.Err(err))
		}
	}

	if !u.IsCallback() && u.Text == flow.CmdRestart {
		return a.handleUser(ctx, log, u)
	}

	if a.admin != nil && a.admin.IsAdmin(u.ChatId) {
		if err = a.admin.Handle(ctx, u); err != nil {
			log.Error("admin command failed", sl.Err(err))
			return err
		}
		return nil
	}

	return a.handleUser(ctx, log, u)
}

func (a *App) handleUser(ctx context.Context, log *slog.Logger, u *entity.Update) error {
	if err := a.machine.Handle(ctx, u); err != nil {
		log.Error("handling update", sl.Err(err))
		a.reply(ctx, u.ChatId, textFallback)
		return err
	}
	return nil
}

func (a *App) reply(ctx context.Context, chatId int64, text string) {
	if err := a.gateway.SendMessage(ctx, chatId, text, nil); err != nil {
		a.log.With(slog.Int64("chat_id", chatId)).Warn("sending fallback", sl.Err(err))
	}
}
