package purchasebridge

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/purchase-bridge/internal/config"
	"github.com/magabrotheeeer/purchase-bridge/internal/ledger"
	"github.com/magabrotheeeer/purchase-bridge/internal/lib/sl"
	"github.com/magabrotheeeer/purchase-bridge/internal/lib/slacksig"
	"github.com/magabrotheeeer/purchase-bridge/internal/metrics"
	"github.com/magabrotheeeer/purchase-bridge/internal/services/purchase"
	"github.com/magabrotheeeer/purchase-bridge/internal/slackapi"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server  *http.Server
	logger  *slog.Logger
	service *purchase.Service
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	m := metrics.New(nil)

	// токен обновляется и во время остановки, пока дорабатывают фоновые задачи
	auth := ledger.ServiceAccount(context.Background(), cfg.ServiceAccountEmail, cfg.PrivateKeyPEM())
	appender, err := ledger.NewSheetsAppender(ctx, auth)
	if err != nil {
		return nil, err
	}
	book := ledger.New(logger, appender, cfg.SpreadsheetID, cfg.SheetRange, m)

	slackClient := slackapi.New(logger, cfg.BotToken)

	service := purchase.NewService(logger, slackClient, book, slackClient,
		purchase.WithDateFormat(cfg.Location(), cfg.DateLayout),
		purchase.WithMetrics(m),
	)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, slacksig.New(cfg.SigningSecret), service, m)

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:  srv,
		logger:  logger,
		service: service,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if waitErr := a.service.Wait(timeoutCtx); waitErr != nil {
			a.logger.Warn("in-flight commands did not finish", sl.Err(waitErr))
		}
		return err
	}
}
