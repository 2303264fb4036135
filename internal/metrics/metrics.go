// Package metrics содержит Prometheus-коллекторы сервиса.
// Все методы безопасно вызывать на nil *Metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics хранит все коллекторы приложения и передаётся зависимостям явно.
type Metrics struct {
	commandsTotal        *prometheus.CounterVec
	userLookupsTotal     *prometheus.CounterVec
	ledgerAppendsTotal   *prometheus.CounterVec
	ledgerAppendDuration *prometheus.HistogramVec

	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
}

// New создаёт Metrics и регистрирует коллекторы.
// Если registry равен nil, используется prometheus.DefaultRegisterer.
func New(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		commandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slack_commands_total",
				Help: "Total number of processed slash commands by outcome",
			},
			[]string{"outcome"},
		),
		userLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slack_user_lookups_total",
				Help: "Total number of Slack user lookups by status",
			},
			[]string{"status"},
		),
		ledgerAppendsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_appends_total",
				Help: "Total number of ledger row appends by status",
			},
			[]string{"status"},
		),
		ledgerAppendDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_append_duration_seconds",
				Help:    "Duration of ledger row appends in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"handler", "method", "status"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),
	}
}

// RecordCommand фиксирует конечное состояние обработки команды.
func (m *Metrics) RecordCommand(outcome string) {
	if m == nil {
		return
	}
	m.commandsTotal.WithLabelValues(outcome).Inc()
}

// RecordUserLookup фиксирует результат поиска пользователя.
func (m *Metrics) RecordUserLookup(resolved bool) {
	if m == nil {
		return
	}
	status := "resolved"
	if !resolved {
		status = "placeholder"
	}
	m.userLookupsTotal.WithLabelValues(status).Inc()
}

// RecordLedgerAppend фиксирует попытку добавить строку в таблицу.
func (m *Metrics) RecordLedgerAppend(duration float64, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.ledgerAppendsTotal.WithLabelValues(status).Inc()
	m.ledgerAppendDuration.WithLabelValues(status).Observe(duration)
}

// RecordHTTPRequest фиксирует HTTP-запрос и его длительность.
func (m *Metrics) RecordHTTPRequest(handler, method string, statusCode int, duration float64) {
	if m == nil {
		return
	}
	status := statusCodeToString(statusCode)
	m.httpRequestDuration.WithLabelValues(handler, method, status).Observe(duration)
	m.httpRequestsTotal.WithLabelValues(handler, method, status).Inc()
}

func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "unknown"
	}
}
