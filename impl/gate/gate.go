// Package gate checks channel membership before a registration may complete.
package gate

import (
	"context"
	"log/slog"
	"regbot/entity"
	"regbot/lib/sl"
)

// MembershipClient reports a user's status in a channel.
type MembershipClient interface {
	ChatMemberStatus(ctx context.Context, channelId, userId int64) (entity.MemberStatus, error)
}

// Gate is fail-closed: query errors and unknown statuses count as not subscribed.
type Gate struct {
	client    MembershipClient
	channelId int64
	log       *slog.Logger
}

func New(client MembershipClient, channelId int64, log *slog.Logger) *Gate {
	return &Gate{
		client:    client,
		channelId: channelId,
		log:       log.With(sl.Module("gate"), slog.Int64("channel_id", channelId)),
	}
}

func (g *Gate) Configured() bool {
	return g.client != nil && g.channelId != 0
}

func (g *Gate) Check(ctx context.Context, userId int64) bool {
	if !g.Configured() {
		g.log.Warn("membership check without channel", slog.Int64("user_id", userId))
		return false
	}
	status, err := g.client.ChatMemberStatus(ctx, g.channelId, userId)
	if err != nil {
		g.log.With(slog.Int64("user_id", userId)).Warn("membership check failed", sl.Err(err))
		return false
	}
	ok := status.IsSubscribed()
	g.log.Debug("membership checked",
		slog.Int64("user_id", userId),
		slog.String("status", string(status)),
		slog.Bool("subscribed", ok),
	)
	return ok
}
