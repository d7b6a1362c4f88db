package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"regbot/bot"
	"regbot/entity"
	"regbot/lib/api/cont"
	"regbot/lib/api/response"
	"regbot/lib/sl"
	"regbot/lib/validate"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const maxBodySize = 1 << 20

type Core interface {
	HandleUpdate(ctx context.Context, flow entity.Flow, u *entity.Update) error
}

// Update accepts one Telegram update for the flow in the request context.
// Decoding errors answer 400; handling errors answer 500 without details.
func Update(logger *slog.Logger, handler Core) http.HandlerFunc {
	mod := sl.Module("http.handlers.webhook")

	return func(w http.ResponseWriter, r *http.Request) {
		flow := cont.GetFlow(r.Context())
		log := logger.With(
			mod,
			slog.String("flow", string(flow)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			log.Warn("read request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Ack{Ok: false})
			return
		}

		var upd tgbotapi.Update
		if err = json.Unmarshal(payload, &upd); err != nil {
			log.Warn("unmarshal update", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Ack{Ok: false})
			return
		}

		u := bot.UpdateFromTelegram(&upd)
		if u == nil {
			log.Debug("update ignored", slog.Int64("update_id", upd.UpdateId))
			render.JSON(w, r, response.Ack{Ok: true})
			return
		}
		if err = validate.Struct(u); err != nil {
			log.Warn("invalid update", slog.Int64("update_id", upd.UpdateId), sl.Err(err))
			render.JSON(w, r, response.Ack{Ok: true})
			return
		}

		if err = handler.HandleUpdate(r.Context(), flow, u); err != nil {
			log.With(slog.Int64("chat_id", u.ChatId)).Error("webhook handling failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Ack{Ok: false})
			return
		}

		render.JSON(w, r, response.Ack{Ok: true})
	}
}
