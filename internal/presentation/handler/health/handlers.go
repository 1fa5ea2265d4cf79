package health

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/emberlabs/ember/internal/infrastructure/json"
	"github.com/emberlabs/ember/internal/persistence/kv"
)

var (
	startTime       = time.Now()
	healthy   int32 = 1 // 1: healthy, 0 = unhealthy
)

type Handler struct {
	store kv.Store
}

func NewHandler(store kv.Store) *Handler {
	return &Handler{store: store}
}

// GetHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API, including uptime and current timestamp
// @Tags         health
// @Produce      json
// @Success      200 {object} healthResponse "Service is healthy"
// @Failure      503 {object} healthResponse "Service is unhealthy"
// @Router       /health [get]
// @Router       /healthz [get]
// @Router       /live [get]
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if atomic.LoadInt32(&healthy) == 0 {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	json.Write(w, code, healthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
	})
}

// GetReady godoc
// @Summary      Readiness check
// @Description  Reports whether the API can serve traffic. Readiness requires a reachable backing store.
// @Tags         health
// @Produce      json
// @Success      200 {object} readyResponse "Service is ready"
// @Failure      503 {object} readyResponse "Backing store is unreachable"
// @Router       /ready [get]
func (h *Handler) GetReady(w http.ResponseWriter, r *http.Request) {
	// Any answer, hit or miss, means the store round-trip works.
	if _, err := h.store.Exists(r.Context(), "health:probe"); err != nil {
		json.Write(w, http.StatusServiceUnavailable, readyResponse{
			Status: "not ready",
			Store:  err.Error(),
		})
		return
	}

	json.Write(w, http.StatusOK, readyResponse{
		Status: "ready",
		Store:  "ok",
	})
}

// SetHealthy flips the liveness flag, used during graceful shutdown so
// load balancers drain the instance before connections close.
func SetHealthy(up bool) {
	if up {
		atomic.StoreInt32(&healthy, 1)
		return
	}
	atomic.StoreInt32(&healthy, 0)
}
