package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "climate_api"

// Metrics holds the per-request Prometheus collectors.
type Metrics struct {
	Requests        *prometheus.CounterVec   // labels: method, route, status
	RequestDuration *prometheus.HistogramVec // labels: method, route
}

// NewMetrics creates the request collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, matched route and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and matched route.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),
	}

	reg.MustRegister(m.Requests, m.RequestDuration)
	return m
}
