package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/homelabops/inventory/internal/api/common"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	deps *common.Dependencies
}

func NewHealthHandler(deps *common.Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Healthz handles GET /healthz (liveness probe).
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	common.SendJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Readyz handles GET /readyz: 503 until the database answers.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Store.Ping(r.Context()); err != nil {
		common.SendJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	common.SendJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Detailed handles GET /health/detailed: database latency, inventory
// counts and runtime stats.
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	pingStart := time.Now()
	if err := h.deps.Store.Ping(r.Context()); err != nil {
		dbStatus = "down: " + err.Error()
	}
	dbLatency := time.Since(pingStart)

	body := map[string]interface{}{
		"status": "ok",
		"database": map[string]interface{}{
			"status":     dbStatus,
			"latency_ms": dbLatency.Milliseconds(),
		},
		"runtime": map[string]interface{}{
			"goroutines":   runtime.NumGoroutine(),
			"heap_bytes":   heapBytes(),
			"go_version":   runtime.Version(),
			"num_cpu":      runtime.NumCPU(),
			"uptime_human": time.Since(h.deps.StartedAt).Round(time.Second).String(),
		},
	}

	if stats, err := h.deps.Store.GetStats(r.Context()); err == nil {
		body["inventory"] = map[string]interface{}{
			"devices":  stats.TotalDevices,
			"enabled":  stats.EnabledDevices,
			"monitors": stats.TotalMonitors,
		}
	}

	common.SendJSON(w, http.StatusOK, body)
}

func heapBytes() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}
