// Package interaction принимает interactive-запросы Slack (кнопки, модальные окна).
// Бизнес-логики нет: Slack достаточно пустого ответа 200.
package interaction

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
)

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.slack.interaction"
	h.log.Debug("interaction received",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	w.WriteHeader(http.StatusOK)
}
