// Package command реализует HTTP-обработчик slash-команды Slack.
//
// Handler разбирает форму команды, валидирует обязательные поля,
// сразу отвечает ephemeral-сообщением (Slack ждёт ответ не дольше трёх секунд)
// и запускает обработку команды в фоне. Результат приходит отдельным сообщением в канал.
package command

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/slack-go/slack"

	"github.com/magabrotheeeer/purchase-bridge/internal/http/response"
	"github.com/magabrotheeeer/purchase-bridge/internal/lib/sl"
	"github.com/magabrotheeeer/purchase-bridge/internal/lib/slacksig"
	"github.com/magabrotheeeer/purchase-bridge/internal/models"
)

// Service описывает интерфейс обработки команды.
type Service interface {
	Acknowledge(cmd models.InboundCommand) string
	Dispatch(ctx context.Context, cmd models.InboundCommand)
}

// Handler управляет HTTP-запросами со slash-командами.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис обработки команды
	validate *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.slack.command"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	s, err := slack.SlashCommandParse(r)
	if err != nil {
		log.Error("failed to parse slash command", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	cmd := models.InboundCommand{
		RawText:     s.Text,
		UserID:      s.UserID,
		ChannelID:   s.ChannelID,
		CommandName: s.Command,
		Signature:   r.Header.Get(slacksig.HeaderSignature),
		Timestamp:   slacksig.Timestamp(r.Header),
	}

	if err := h.validate.Struct(cmd); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	log.Info("slash command received",
		slog.String("command", cmd.CommandName),
		slog.String("user_id", cmd.UserID),
		slog.String("channel_id", cmd.ChannelID),
	)

	render.JSON(w, r, response.Ephemeral(h.service.Acknowledge(cmd)))
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	h.service.Dispatch(r.Context(), cmd)
}
