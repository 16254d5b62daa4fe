package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the analytics service.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AnalyticsComputeDur prometheus.Histogram
	ChartsRendered      *prometheus.CounterVec
	DataLoadErrors      prometheus.Counter
}

// NewMetrics registers and returns all Prometheus metrics on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_http_requests_total",
			Help: "Total HTTP requests by path and status",
		}, []string{"path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketlens_http_request_duration_seconds",
			Help:    "HTTP request latency by path",
			Buckets: prometheus.DefBuckets,
		}, []string{"path"}),
		AnalyticsComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "marketlens_analytics_compute_duration_seconds",
			Help:    "Time spent loading the series and computing all metric groups",
			Buckets: prometheus.DefBuckets,
		}),
		ChartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_charts_rendered_total",
			Help: "Charts rendered by kind",
		}, []string{"kind"}),
		DataLoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketlens_data_load_errors_total",
			Help: "Failed attempts to load the price series",
		}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AnalyticsComputeDur,
		m.ChartsRendered,
		m.DataLoadErrors,
	)

	return m
}

// Handler returns an HTTP handler exposing the registry in Prometheus format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
