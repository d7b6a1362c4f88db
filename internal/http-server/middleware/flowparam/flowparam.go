// Package flowparam resolves the {flow} path segment into the request context.
package flowparam

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"regbot/entity"
	"regbot/lib/api/cont"
	"regbot/lib/api/response"
	"regbot/lib/sl"
)

const Param = "flow"

// New stores the flow named by the path in the context; unknown flows get 404.
// Routes without the parameter fall back to def.
func New(log *slog.Logger, def entity.Flow) func(next http.Handler) http.Handler {
	logger := log.With(sl.Module("middleware.flowparam"))

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			flow := def
			if slug := chi.URLParam(r, Param); slug != "" {
				var ok bool
				flow, ok = entity.FlowFromSlug(slug)
				if !ok {
					logger.Debug("unknown flow", slog.String("slug", slug))
					render.Status(r, http.StatusNotFound)
					render.JSON(w, r, response.Error("Unknown flow"))
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(cont.PutFlow(r.Context(), flow)))
		}
		return http.HandlerFunc(fn)
	}
}
