package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler serves the Prometheus exposition of the process metrics,
// including the OpenTelemetry instruments bridged by the prometheus exporter.
type MetricsHandler struct {
	handler http.Handler
}

// NewMetricsHandler creates a metrics handler over the default registry
func NewMetricsHandler() *MetricsHandler {
	return NewMetricsHandlerFor(prometheus.DefaultGatherer)
}

// NewMetricsHandlerFor creates a metrics handler over a specific gatherer
func NewMetricsHandlerFor(gatherer prometheus.Gatherer) *MetricsHandler {
	return &MetricsHandler{
		handler: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}
