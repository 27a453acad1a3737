package api

import (
	"net/http"
	"time"

	"github.com/takodata/tako-mcp/internal/log"
)

// serviceName identifies this server in the detailed health payload.
const serviceName = "tako-mcp-server"

// HealthHandler handles health check endpoints.
// Both endpoints are liveness probes: the server has no dependency it can
// meaningfully check without spending upstream quota.
type HealthHandler struct {
	logger log.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger log.Logger) *HealthHandler {
	return &HealthHandler{logger: logger}
}

// RegisterRoutes registers health routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.liveness)
	mux.HandleFunc("GET /health/detailed", h.detailed)
}

// liveness returns 200 OK with a plain-text body if the process is alive.
func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// healthDetail is the JSON body of the detailed health endpoint.
type healthDetail struct {
	Status    string  `json:"status"`
	Service   string  `json:"service"`
	Timestamp float64 `json:"timestamp"`
}

// detailed returns a JSON liveness payload with service identity and time.
func (h *HealthHandler) detailed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, healthDetail{
		Status:    "ok",
		Service:   serviceName,
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
	})
}
