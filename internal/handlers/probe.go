package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// ReadinessChecker reports whether the dashboard can serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	ready ReadinessChecker
}

// NewProbeHandler creates a new probe handler.
func NewProbeHandler(ready ReadinessChecker) *ProbeHandler {
	return &ProbeHandler{ready: ready}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 200 OK once a dataset, real or sample, has been loaded.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if !h.ready.Ready() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "dataset not loaded",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
