package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// Message статический ответ проверки работоспособности.
const Message = "Purchase bridge is running"

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, Message)
}
