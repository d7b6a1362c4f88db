// Package core routes inbound updates to the per-flow registration apps.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"regbot/entity"
	"regbot/internal/database"
	"regbot/lib/sl"
)

// Registrations is the read access used by the spreadsheet export.
type Registrations interface {
	SubscribedRegistrations(ctx context.Context, flow entity.Flow) ([]*entity.Registration, error)
}

type Core struct {
	apps  map[entity.Flow]*App
	store Registrations
	log   *slog.Logger
}

func New(store Registrations, log *slog.Logger) *Core {
	return &Core{
		apps:  make(map[entity.Flow]*App),
		store: store,
		log:   log.With(sl.Module("core")),
	}
}

// Register makes an app reachable by its flow name.
func (c *Core) Register(app *App) {
	c.apps[app.Flow()] = app
	c.log.Info("flow registered", slog.String("flow", string(app.Flow())))
}

func (c *Core) App(flow entity.Flow) (*App, bool) {
	app, ok := c.apps[flow]
	return app, ok
}

// HandleUpdate dispatches one update to the app serving the flow.
func (c *Core) HandleUpdate(ctx context.Context, flow entity.Flow, u *entity.Update) error {
	app, ok := c.apps[flow]
	if !ok {
		return fmt.Errorf("%w: %q", database.ErrUnknownFlow, flow)
	}
	return app.HandleUpdate(ctx, u)
}

// SubscribedRegistrations returns subscribed records of a flow, newest first.
func (c *Core) SubscribedRegistrations(ctx context.Context, flow entity.Flow) ([]*entity.Registration, error) {
	if !flow.IsValid() {
		return nil, fmt.Errorf("%w: %q", database.ErrUnknownFlow, flow)
	}
	return c.store.SubscribedRegistrations(ctx, flow)
}
