package api

import (
	"net/http"

	"github.com/okian/banquet/pkg/metrics"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{metrics: metrics.Handler()}
}

// HandleHealth handles GET /healthz requests by serving the Prometheus
// registry. A successful scrape doubles as the liveness signal.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	h.metrics.ServeHTTP(w, r)
}
