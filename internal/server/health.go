package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Health status constants for health check responses.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
)

// HealthChecker provides liveness and readiness endpoints for the HTTP
// transport.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker creates a new HealthChecker.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

func (h *HealthChecker) isShuttingDown() bool {
	return h.serverContext != nil && h.serverContext.IsShutdown()
}

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status        string `json:"status"`
	Authenticated bool   `json:"authenticated"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// LivenessHandler reports whether the process is alive.
func (h *HealthChecker) LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	status := healthStatusOK
	code := http.StatusOK
	if h.isShuttingDown() {
		status = healthStatusShuttingDown
		code = http.StatusServiceUnavailable
	}
	h.writeResponse(w, code, status)
}

// ReadinessHandler reports whether the server should receive traffic.
// An unauthenticated server is still ready; tools report the auth state
// themselves.
func (h *HealthChecker) ReadinessHandler(w http.ResponseWriter, _ *http.Request) {
	switch {
	case h.isShuttingDown():
		h.writeResponse(w, http.StatusServiceUnavailable, healthStatusShuttingDown)
	case !h.IsReady():
		h.writeResponse(w, http.StatusServiceUnavailable, healthStatusNotReady)
	default:
		h.writeResponse(w, http.StatusOK, healthStatusOK)
	}
}

func (h *HealthChecker) writeResponse(w http.ResponseWriter, code int, status string) {
	resp := HealthResponse{
		Status:        status,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}
	if h.serverContext != nil {
		resp.Authenticated = h.serverContext.AuthManager().Authenticated()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
