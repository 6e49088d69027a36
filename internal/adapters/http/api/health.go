package api

import (
	"net/http"

	"github.com/okian/ukestate/pkg/logger"
	"github.com/okian/ukestate/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps HealthDependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps HealthDependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleHealth handles GET /health requests with a round trip to the
// Query Service. The failure cause is logged and never returned.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Health(r.Context()); err != nil {
		logger.Get().Warn(r.Context(), "health check failed",
			logger.String("request_id", RequestIDFromContext(r.Context())),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, detailHealth)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "OK"})
}

// NewMetricsHandler serves the custom Prometheus registry.
func NewMetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
