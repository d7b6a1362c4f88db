package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regbot/entity"
	xlsx "regbot/internal/export"
	"regbot/lib/api/cont"
	"regbot/lib/api/response"
	"regbot/lib/sl"

	"github.com/go-chi/render"
)

const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Core interface {
	SubscribedRegistrations(ctx context.Context, flow entity.Flow) ([]*entity.Registration, error)
}

// Download streams the subscribed registrations of the flow as an xlsx file.
func Download(logger *slog.Logger, handler Core) http.HandlerFunc {
	mod := sl.Module("http.handlers.export")

	return func(w http.ResponseWriter, r *http.Request) {
		flow := cont.GetFlow(r.Context())
		log := logger.With(mod, slog.String("flow", string(flow)))

		list, err := handler.SubscribedRegistrations(r.Context(), flow)
		if err != nil {
			log.Error("load registrations", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Export failed"))
			return
		}

		var buf bytes.Buffer
		if err = xlsx.Write(&buf, flow, list); err != nil {
			log.Error("render workbook", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Export failed"))
			return
		}

		log.Info("export served", slog.Int("rows", len(list)))
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", xlsx.FileName(flow)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}
