package middleware

import (
	"Inkwell/internal/metrics"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// WithMetrics записывает статус и длительность запроса по шаблону маршрута chi,
// чтобы id в пути не раздували число серий.
func WithMetrics(rec metrics.Recorder) func(http.Handler) http.Handler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rd := &responseData{}
			lw := loggingResponseWriter{ResponseWriter: w, responseData: rd}
			next.ServeHTTP(&lw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			if rd.status == 0 {
				rd.status = http.StatusOK
			}
			rec.RecordHTTPRequest(r.Method, route, rd.status, time.Since(start))
		})
	}
}
