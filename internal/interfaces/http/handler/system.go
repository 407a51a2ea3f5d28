package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler handles system-level endpoints
type SystemHandler struct {
	BaseHandler
	appName string
	env     string
	started time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(appName, env string) *SystemHandler {
	return &SystemHandler{
		appName: appName,
		env:     env,
		started: time.Now(),
	}
}

// Ping answers liveness probes
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Info returns basic runtime information
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"app":        h.appName,
		"env":        h.env,
		"go_version": runtime.Version(),
		"uptime":     time.Since(h.started).String(),
		"time":       time.Now().Format(time.RFC3339),
	})
}
