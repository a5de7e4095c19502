package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"user_manager/internal/model"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness probes
type HealthHandler struct {
	pinger Pinger
	log    *slog.Logger
	now    func() time.Time
}

// NewHealthHandler creates a new HealthHandler. pinger may be nil.
func NewHealthHandler(pinger Pinger, log *slog.Logger) *HealthHandler {
	return &HealthHandler{pinger: pinger, log: log, now: time.Now}
}

func (h *HealthHandler) RegisterHealthRoutes(rg gin.IRouter) {
	rg.GET("/api/health", h.Health)
}

func (h *HealthHandler) Health(c *gin.Context) {
	timestamp := h.now().UTC().Format(time.RFC3339Nano)
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			h.log.Error("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, model.HealthStatus{Status: "ERROR", Timestamp: timestamp})
			return
		}
	}
	c.JSON(http.StatusOK, model.HealthStatus{Status: "OK", Timestamp: timestamp})
}
