// Package flow implements the registration state machine.
//
// A Flow describes one registration sequence (general or study center) as a set of
// steps keyed by entity.State; a single Machine drives any Flow:
//
//	update → GetOrCreate record → /restart? → Steps[state].Handle → mutate → Store.UpdateRegistration → Steps[new state].Enter
//
// Each Step validates its own input and mutates the record only through the named
// operations of entity.Registration, which assert the pre-state. A rejected input
// never mutates the record; the step re-prompts instead.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regbot/entity"
	"regbot/lib/sl"
)

const (
	CmdStart   = "/start"
	CmdRestart = "/restart"

	cbGrade        = "grade:"
	cbSubject      = "subject:"
	cbConfirm      = "check_subscription"
	confirmText    = "✅ Tekshirish"
	contactLabel   = "📱 Telefon raqamni yuborish"
	minPhoneDigits = 9
)

// Store is the registration persistence the machine depends on.
// Implemented by internal/database.
type Store interface {
	GetOrCreate(ctx context.Context, flow entity.Flow, chatId int64) (*entity.Registration, error)
	UpdateRegistration(ctx context.Context, reg *entity.Registration) error
}

type Messenger interface {
	SendMessage(ctx context.Context, chatId int64, text string, kb *entity.Keyboard) error
}

// Gate reports whether a user passes the channel subscription check.
type Gate interface {
	Configured() bool
	Check(ctx context.Context, userId int64) bool
}

// Links are the external channels advertised on the subscription step.
type Links struct {
	ChannelUsername string
	Instagram       string
	YouTube         string
}

// Step is the behavior bound to one state.
type Step struct {
	// Enter sends the prompt for a record that has just arrived in the state.
	Enter func(ctx context.Context, m *Machine, reg *entity.Registration)
	// Handle reacts to input received while the record is in the state.
	Handle func(ctx context.Context, m *Machine, reg *entity.Registration, u *entity.Update) error
}

// Flow is a complete state machine definition.
type Flow struct {
	Name  entity.Flow
	First entity.State // entered from StateStart
	Order []entity.State
	Steps map[entity.State]Step

	// RestartNotice is sent before the first prompt after /restart, if set.
	RestartNotice string
	// Summary renders the "already registered" reply to /start in the completed state.
	Summary func(reg *entity.Registration) string
}

// Position returns the index of the state in the flow order, or -1.
func (f *Flow) Position(state entity.State) int {
	for i, s := range f.Order {
		if s == state {
			return i
		}
	}
	return -1
}

type Machine struct {
	flow  *Flow
	store Store
	msg   Messenger
	gate  Gate
	links Links
	log   *slog.Logger
}

func New(flow *Flow, store Store, msg Messenger, gate Gate, links Links, log *slog.Logger) *Machine {
	return &Machine{
		flow:  flow,
		store: store,
		msg:   msg,
		gate:  gate,
		links: links,
		log:   log.With(sl.Module("flow"), slog.String("flow", string(flow.Name))),
	}
}

func (m *Machine) Flow() entity.Flow {
	return m.flow.Name
}

// Handle processes one update for a regular (non-admin) conversant.
func (m *Machine) Handle(ctx context.Context, u *entity.Update) error {
	reg, err := m.store.GetOrCreate(ctx, m.flow.Name, u.ChatId)
	if err != nil {
		return fmt.Errorf("get registration: %w", err)
	}

	if !u.IsCallback() && u.Text == CmdRestart {
		return m.Restart(ctx, reg)
	}

	step, ok := m.flow.Steps[reg.State]
	if !ok || step.Handle == nil {
		m.log.Warn("unknown state",
			slog.Int64("chat_id", reg.ChatId),
			slog.String("state", string(reg.State)),
		)
		m.reply(ctx, reg.ChatId, textFallback, nil)
		return nil
	}
	return step.Handle(ctx, m, reg, u)
}

// Restart fully resets the record and replays the start entry logic.
func (m *Machine) Restart(ctx context.Context, reg *entity.Registration) error {
	reg.Reset()
	if err := m.save(ctx, reg); err != nil {
		return err
	}
	m.log.Info("registration reset", slog.Int64("chat_id", reg.ChatId))
	if m.flow.RestartNotice != "" {
		m.reply(ctx, reg.ChatId, m.flow.RestartNotice, nil)
	}
	return m.begin(ctx, reg)
}

func (m *Machine) begin(ctx context.Context, reg *entity.Registration) error {
	if err := reg.Begin(m.flow.First); err != nil {
		return err
	}
	return m.advance(ctx, reg)
}

// advance persists a mutated record and sends the prompt of its new state.
func (m *Machine) advance(ctx context.Context, reg *entity.Registration) error {
	if err := m.save(ctx, reg); err != nil {
		return err
	}
	m.log.Debug("state changed",
		slog.Int64("chat_id", reg.ChatId),
		slog.String("state", string(reg.State)),
	)
	if step, ok := m.flow.Steps[reg.State]; ok && step.Enter != nil {
		step.Enter(ctx, m, reg)
	}
	return nil
}

func (m *Machine) save(ctx context.Context, reg *entity.Registration) error {
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("invalid registration: %w", err)
	}
	if err := m.store.UpdateRegistration(ctx, reg); err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	return nil
}

// reply sends a message; failures are logged and never interrupt the flow.
func (m *Machine) reply(ctx context.Context, chatId int64, text string, kb *entity.Keyboard) {
	if err := m.msg.SendMessage(ctx, chatId, text, kb); err != nil {
		m.log.With(slog.Int64("chat_id", chatId)).Warn("sending reply", sl.Err(err))
	}
}

// mutate applies a named record operation; a wrong-state error means a stale
// update raced with another one and is dropped.
func (m *Machine) mutate(ctx context.Context, reg *entity.Registration, op func() error) error {
	if err := op(); err != nil {
		if errors.Is(err, entity.ErrWrongState) {
			m.log.Warn("stale transition", slog.Int64("chat_id", reg.ChatId), sl.Err(err))
			return nil
		}
		return err
	}
	return m.advance(ctx, reg)
}
