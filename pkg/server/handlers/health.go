package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agentforge/mettakg"
)

// Build information, settable at build time using ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// HealthHandler serves liveness and service info endpoints.
type HealthHandler struct {
	gateway mettakg.Gateway
}

// NewHealthHandler creates a health handler over the gateway.
func NewHealthHandler(g mettakg.Gateway) *HealthHandler {
	return &HealthHandler{gateway: g}
}

// Health handles GET /health. The payload matches the remote graph
// service health shape, reporting local store sizes. The gateway is
// healthy even when the remote graph is down, since the fallback path
// always works.
func (h *HealthHandler) Health(c *gin.Context) {
	if h.gateway == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, h.gateway.Stats())
}

// Info handles GET /, a small service banner.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":    "mettakg",
		"version":    Version,
		"git_commit": GitCommit,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}
