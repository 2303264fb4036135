// Package purchasebridge собирает зависимости приложения и регистрирует маршруты.
package purchasebridge

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/purchase-bridge/internal/http/handlers/health"
	"github.com/magabrotheeeer/purchase-bridge/internal/http/handlers/slack/command"
	"github.com/magabrotheeeer/purchase-bridge/internal/http/handlers/slack/interaction"
	"github.com/magabrotheeeer/purchase-bridge/internal/http/middlewarectx"
	"github.com/magabrotheeeer/purchase-bridge/internal/metrics"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, verifier middlewarectx.Verifier, commandService command.Service, m *metrics.Metrics) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.With(metrics.HTTPMetricsMiddleware(m, "/")).Get("/", health.New(logger).ServeHTTP)

	r.Route("/slack", func(r chi.Router) {
		// Подпись проверяется до любой обработки команды
		r.With(
			metrics.HTTPMetricsMiddleware(m, "/slack/commands"),
			middlewarectx.SlackSignatureMiddleware(verifier, logger),
		).Post("/commands", command.New(logger, commandService).ServeHTTP)

		r.With(
			metrics.HTTPMetricsMiddleware(m, "/slack/interactions"),
		).Post("/interactions", interaction.New(logger).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
}
