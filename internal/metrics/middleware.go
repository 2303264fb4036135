package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
)

// HTTPMetricsMiddleware записывает метрики HTTP-запросов.
// handlerName — постоянное имя эндпоинта, например "/slack/commands".
func HTTPMetricsMiddleware(m *Metrics, handlerName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.RecordHTTPRequest(handlerName, r.Method, status, time.Since(start).Seconds())
		})
	}
}
