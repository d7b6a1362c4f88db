package timeout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regbot/lib/sl"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Timeout bounds the request context. A handler still running when the
// deadline passes is logged; Telegram retries undelivered updates on its own.
func Timeout(log *slog.Logger, limit time.Duration) func(next http.Handler) http.Handler {
	logger := log.With(sl.Module("middleware.timeout"))
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer func() {
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					logger.Warn("request deadline exceeded",
						slog.String("path", r.URL.Path),
						slog.Duration("limit", limit),
						slog.String("request_id", middleware.GetReqID(r.Context())),
					)
				}
				cancel()
			}()

			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
