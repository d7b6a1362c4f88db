// Package broadcast fans an admin message out to every subscribed conversant of a flow.
package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"regbot/entity"
	"regbot/lib/sl"

	"github.com/google/uuid"
)

// Targets lists the subscribed records of a flow.
type Targets interface {
	SubscribedRegistrations(ctx context.Context, flow entity.Flow) ([]*entity.Registration, error)
}

// Sender delivers to one target. SendText must not apply any parse mode so
// recipients get the admin's text exactly as typed.
type Sender interface {
	SendText(ctx context.Context, chatId int64, text string) error
	CopyMessage(ctx context.Context, toChatId, fromChatId, messageId int64) error
}

// Payload is what gets delivered: a text, or a message copied from the admin chat.
type Payload struct {
	Text       string
	FromChatId int64
	MessageId  int64
}

func (p Payload) IsText() bool {
	return p.Text != ""
}

type Broadcaster struct {
	flow    entity.Flow
	targets Targets
	sender  Sender
	log     *slog.Logger
}

func New(flow entity.Flow, targets Targets, sender Sender, log *slog.Logger) *Broadcaster {
	return &Broadcaster{
		flow:    flow,
		targets: targets,
		sender:  sender,
		log:     log.With(sl.Module("broadcast"), slog.String("flow", string(flow))),
	}
}

// Send delivers the payload sequentially and returns the number of attempted
// targets. Per-target failures are logged and still counted.
func (b *Broadcaster) Send(ctx context.Context, p Payload) (int, error) {
	list, err := b.targets.SubscribedRegistrations(ctx, b.flow)
	if err != nil {
		return 0, fmt.Errorf("loading targets: %w", err)
	}
	if len(list) == 0 {
		return 0, nil
	}

	log := b.log.With(slog.String("broadcast_id", uuid.NewString()))
	log.Info("broadcast started",
		slog.Int("targets", len(list)),
		slog.Bool("text", p.IsText()),
	)

	sent, failed := 0, 0
	for _, reg := range list {
		var err error
		if p.IsText() {
			err = b.sender.SendText(ctx, reg.ChatId, p.Text)
		} else {
			err = b.sender.CopyMessage(ctx, reg.ChatId, p.FromChatId, p.MessageId)
		}
		if err != nil {
			failed++
			log.With(slog.Int64("chat_id", reg.ChatId)).Warn("delivery failed", sl.Err(err))
		}
		sent++
	}

	log.Info("broadcast finished",
		slog.Int("sent", sent),
		slog.Int("failed", failed),
	)
	return sent, nil
}
