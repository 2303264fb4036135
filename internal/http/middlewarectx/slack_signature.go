// Package middlewarectx содержит HTTP middleware сервиса.
//
// SlackSignatureMiddleware проверяет подпись запроса от Slack до того,
// как тело запроса попадёт в обработчик. Тело читается целиком и
// подменяется копией, чтобы обработчик мог прочитать его ещё раз.
package middlewarectx

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/purchase-bridge/internal/http/response"
	"github.com/magabrotheeeer/purchase-bridge/internal/lib/sl"
)

// maxBodyBytes ограничение на размер тела запроса от Slack.
const maxBodyBytes = 1 << 20

// Verifier описывает проверку подписи запроса.
type Verifier interface {
	Verify(header http.Header, body []byte) error
}

// SlackSignatureMiddleware возвращает middleware, отклоняющий запросы с неверной подписью.
//
// При ошибке чтения тела возвращается 400, при любой ошибке проверки — 401.
func SlackSignatureMiddleware(verifier Verifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SlackSignature"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				log.Error("failed to read request body", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid request body"))
				return
			}
			_ = r.Body.Close()

			if err := verifier.Verify(r.Header, body); err != nil {
				log.Warn("request signature rejected", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid request signature"))
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
