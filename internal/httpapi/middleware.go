package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jonboulle/clockwork"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// instrument logs every request and records it in m. The route label is the
// ServeMux pattern that matched, which the mux sets on r during dispatch.
func instrument(next http.Handler, m *Metrics, clock clockwork.Clock) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := clock.Now()

		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)

		elapsed := clock.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}

		m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(sr.status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", sr.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}
