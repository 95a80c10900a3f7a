package http

import (
	"net/http"

	apierrors "dataclean/internal/errors"
)

// MetricsHandler serves the Prometheus exposition endpoint
type MetricsHandler struct {
	exporter http.Handler
}

// NewMetricsHandler wraps the exporter's scrape handler. A nil exporter
// means metrics are disabled and the endpoint answers 503.
func NewMetricsHandler(exporter http.Handler) *MetricsHandler {
	return &MetricsHandler{exporter: exporter}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		apierrors.WriteError(w, apierrors.NewWithDetails(
			http.StatusServiceUnavailable,
			apierrors.CodeServiceUnavailable,
			"Metrics are disabled",
			nil,
		))
		return
	}
	h.exporter.ServeHTTP(w, r)
}
