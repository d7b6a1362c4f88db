package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"regbot/entity"
	"regbot/internal/config"
	"regbot/internal/http-server/handlers/export"
	"regbot/internal/http-server/handlers/webhook"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	handlerErrors "regbot/internal/http-server/handlers/errors"
	"regbot/internal/http-server/middleware/flowparam"
	"regbot/internal/http-server/middleware/requestlog"
	"regbot/internal/http-server/middleware/timeout"
	"regbot/lib/sl"
)

const webhookTimeout = 30 * time.Second

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	webhook.Core
	export.Core
}

// NewRouter builds the routes:
//
//	POST /webhook/{flow}        Telegram updates for "general" or "study-center"
//	GET  /admin/export          xlsx of the general flow
//	GET  /admin/export/{flow}   xlsx of the given flow
func NewRouter(log *slog.Logger, handler Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(timeout.Timeout(log, webhookTimeout))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(requestlog.New(log))
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(handlerErrors.NotFound(log))
	router.MethodNotAllowed(handlerErrors.NotAllowed(log))

	router.Route("/webhook", func(wh chi.Router) {
		wh.With(flowparam.New(log, "")).Post("/{flow}", webhook.Update(log, handler))
	})
	router.Route("/admin/export", func(ex chi.Router) {
		ex.With(flowparam.New(log, entity.FlowGeneral)).Get("/", export.Download(log, handler))
		ex.With(flowparam.New(log, entity.FlowGeneral)).Get("/{flow}", export.Download(log, handler))
	})

	return router
}

func New(conf *config.Config, log *slog.Logger, handler Handler) *Server {
	server := &Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      NewRouter(log, handler),
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIp, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	s.log.Info("starting api server", slog.String("address", serverAddress))

	if err = s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down api server")
	return s.httpServer.Shutdown(ctx)
}
