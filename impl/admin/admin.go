// Package admin implements the command surface available to the configured admin chat:
// counts, statistics, export hints and broadcasts to subscribers.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"regbot/entity"
	"regbot/impl/broadcast"
	"regbot/lib/sl"
	"strings"
	"unicode"
)

const (
	CmdAdmin     = "/admin"
	CmdStat      = "/stat"
	CmdExport    = "/export"
	CmdBroadcast = "/broadcast"
	CmdCancel    = "/cancel"
)

const (
	textHelp = "Admin buyruqlari:\n" +
		"/admin - Admin menyu\n" +
		"/stat - Statistika\n" +
		"/export - Excel fayl yuklab olish\n" +
		"/broadcast [xabar] - Obunachilarga xabar yuborish\n" +
		"/cancel - Broadcastni bekor qilish"
	textBroadcastOn    = "Broadcast rejimi faollashdi. Xabarni (matn, rasm, video, havola) yuboring. Bekor qilish uchun /cancel"
	textNoTargets      = "Obunachilar topilmadi."
	textCancelled      = "Broadcast bekor qilindi."
	textNoSession      = "Faol broadcast yo'q."
	textExportPrepare  = "Excel fayl tayyorlanmoqda..."
	textExportReady    = "Excel fayl tayyorlandi. Web interfeys orqali yuklab olish mumkin."
	textCommandFailed  = "Buyruqni bajarib bo'lmadi."
	textBroadcastEmpty = "Xabar bo'sh. Matn yoki media yuboring, bekor qilish uchun /cancel"
)

// Store is the read side of the registration store used for counts and statistics.
type Store interface {
	CountRegistrations(ctx context.Context, flow entity.Flow, subscribed bool) (int64, error)
	SubscribedRegistrations(ctx context.Context, flow entity.Flow) ([]*entity.Registration, error)
}

type Messenger interface {
	SendMessage(ctx context.Context, chatId int64, text string, kb *entity.Keyboard) error
}

type Caster interface {
	Send(ctx context.Context, p broadcast.Payload) (int, error)
}

type Dispatcher struct {
	flow      entity.Flow
	policy    Policy
	store     Store
	msg       Messenger
	caster    Caster
	sessions  *broadcast.Sessions
	exportURL string
	log       *slog.Logger
}

func New(flow entity.Flow, policy Policy, store Store, msg Messenger, caster Caster, sessions *broadcast.Sessions, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		flow:     flow,
		policy:   policy,
		store:    store,
		msg:      msg,
		caster:   caster,
		sessions: sessions,
		log:      log.With(sl.Module("admin"), slog.String("flow", string(flow))),
	}
}

// SetExportURL sets the download link mentioned in the /export reply.
func (d *Dispatcher) SetExportURL(url string) {
	d.exportURL = url
}

func (d *Dispatcher) IsAdmin(chatId int64) bool {
	return d.policy != nil && d.policy.IsAdmin(chatId)
}

// Handle processes one admin update. Callback data is treated as command text.
// While a broadcast session is open every non-command message is the payload.
func (d *Dispatcher) Handle(ctx context.Context, u *entity.Update) error {
	if !u.IsCallback() && !u.IsCommand() && d.sessions.Active(u.ChatId) {
		return d.broadcastPayload(ctx, u)
	}

	command, args := splitCommand(u.Input())
	d.log.Debug("admin command", slog.Int64("chat_id", u.ChatId), slog.String("command", command))

	switch command {
	case CmdAdmin:
		return d.menu(ctx, u.ChatId)
	case CmdStat:
		return d.stats(ctx, u.ChatId)
	case CmdExport:
		d.export(ctx, u.ChatId)
	case CmdBroadcast:
		return d.startBroadcast(ctx, u.ChatId, args)
	case CmdCancel:
		if d.sessions.Clear(u.ChatId) {
			d.reply(ctx, u.ChatId, textCancelled, nil)
		} else {
			d.reply(ctx, u.ChatId, textNoSession, nil)
		}
	default:
		d.reply(ctx, u.ChatId, textHelp, nil)
	}
	return nil
}

// splitCommand separates the command from its arguments at the first whitespace
// of any kind, so "/broadcast\nline one\nline two" keeps both payload lines.
func splitCommand(input string) (command, args string) {
	input = strings.TrimSpace(input)
	i := strings.IndexFunc(input, unicode.IsSpace)
	if i < 0 {
		return input, ""
	}
	return input[:i], strings.TrimSpace(input[i:])
}

func (d *Dispatcher) menu(ctx context.Context, chatId int64) error {
	subscribed, err := d.store.CountRegistrations(ctx, d.flow, true)
	if err != nil {
		return d.failed(ctx, chatId, CmdAdmin, err)
	}
	pending, err := d.store.CountRegistrations(ctx, d.flow, false)
	if err != nil {
		return d.failed(ctx, chatId, CmdAdmin, err)
	}

	text := fmt.Sprintf("👤 Admin Paneli\n\n"+
		"Jami ro'yxatdan o'tganlar: %d\n"+
		"Kutilayotganlar: %d\n\n"+
		"Buyruqlar:\n"+
		"/stat - To'liq statistika\n"+
		"/export - Excel fayl yuklab olish\n"+
		"/broadcast [xabar] - Obunachilarga xabar yuborish", subscribed, pending)
	kb := entity.InlineKeyboard(
		[]entity.Button{
			{Text: "📊 Statistika", CallbackData: CmdStat},
			{Text: "📥 Export", CallbackData: CmdExport},
		},
		[]entity.Button{{Text: "📣 Broadcast", CallbackData: CmdBroadcast}},
	)
	d.reply(ctx, chatId, text, kb)
	return nil
}

func (d *Dispatcher) stats(ctx context.Context, chatId int64) error {
	list, err := d.store.SubscribedRegistrations(ctx, d.flow)
	if err != nil {
		return d.failed(ctx, chatId, CmdStat, err)
	}
	d.reply(ctx, chatId, BuildStats(list).Render(), nil)
	return nil
}

func (d *Dispatcher) export(ctx context.Context, chatId int64) {
	d.reply(ctx, chatId, textExportPrepare, nil)
	text := textExportReady
	if d.exportURL != "" {
		text += "\n" + d.exportURL
	}
	d.reply(ctx, chatId, text, nil)
}

// startBroadcast sends an inline payload right away; without one it opens a session.
func (d *Dispatcher) startBroadcast(ctx context.Context, chatId int64, text string) error {
	if text == "" {
		d.sessions.Open(chatId)
		d.log.Info("broadcast session opened", slog.Int64("chat_id", chatId))
		d.reply(ctx, chatId, textBroadcastOn, nil)
		return nil
	}
	d.sessions.Clear(chatId)
	return d.deliver(ctx, chatId, broadcast.Payload{Text: text})
}

func (d *Dispatcher) broadcastPayload(ctx context.Context, u *entity.Update) error {
	p := broadcast.Payload{Text: u.Text}
	if u.Text == "" || u.HasMedia {
		p = broadcast.Payload{FromChatId: u.ChatId, MessageId: u.MessageId}
	}
	if !p.IsText() && p.MessageId == 0 {
		d.reply(ctx, u.ChatId, textBroadcastEmpty, nil)
		return nil
	}
	d.sessions.Clear(u.ChatId)
	return d.deliver(ctx, u.ChatId, p)
}

func (d *Dispatcher) deliver(ctx context.Context, chatId int64, p broadcast.Payload) error {
	sent, err := d.caster.Send(ctx, p)
	if err != nil {
		return d.failed(ctx, chatId, CmdBroadcast, err)
	}
	if sent == 0 {
		d.reply(ctx, chatId, textNoTargets, nil)
		return nil
	}
	d.reply(ctx, chatId, fmt.Sprintf("Yuborildi: %d ta obunachiga.", sent), nil)
	return nil
}

// failed tells the admin the command did not run and passes the error up.
func (d *Dispatcher) failed(ctx context.Context, chatId int64, command string, err error) error {
	d.reply(ctx, chatId, textCommandFailed, nil)
	return fmt.Errorf("%s: %w", command, err)
}

func (d *Dispatcher) reply(ctx context.Context, chatId int64, text string, kb *entity.Keyboard) {
	if err := d.msg.SendMessage(ctx, chatId, text, kb); err != nil {
		d.log.With(slog.Int64("chat_id", chatId)).Warn("sending reply", sl.Err(err))
	}
}
