package handler

import (
	"context"
	"net/http"
	"time"

	"studyflow/utils"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	checks  map[string]Pinger
	started time.Time
	version string
}

// NewHealthHandler takes the named dependencies to probe. A failing check
// makes the service report 503.
func NewHealthHandler(version string, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, started: time.Now(), version: version}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			deps[name] = err.Error()
			status = "degraded"
			continue
		}
		deps[name] = "ok"
	}

	body := gin.H{
		"status":       status,
		"version":      h.version,
		"uptime":       time.Since(h.started).Round(time.Second).String(),
		"dependencies": deps,
		"system":       utils.GetSystemUsage(),
	}
	if status != "ok" {
		c.JSON(http.StatusServiceUnavailable, &utils.Response{Status: http.StatusServiceUnavailable, Error: "dependency check failed", Data: body})
		return
	}
	utils.Success(c, body)
}
