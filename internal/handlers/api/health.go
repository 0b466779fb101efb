package api

import (
	"github.com/gofiber/fiber/v3"

	"campaigndash/internal/dashboard"
	"campaigndash/internal/source"
)

// HealthHandler checks the data source connection via JSON API.
type HealthHandler struct {
	loader dashboard.Loader
}

// NewHealthHandler creates a new API health handler.
func NewHealthHandler(loader dashboard.Loader) *HealthHandler {
	return &HealthHandler{loader: loader}
}

// SourceStatus is the body of a connection check.
type SourceStatus struct {
	Source  string `json:"source"`
	Healthy bool   `json:"healthy"`
	Kind    string `json:"kind"`
	Message string `json:"message,omitempty"`
}

// CheckSource verifies the source credentials. Failures are reported with
// 503 and the error kind.
func (h *HealthHandler) CheckSource(c fiber.Ctx) error {
	err := h.loader.Check(c.Context())
	status := SourceStatus{
		Source:  h.loader.SourceName(),
		Healthy: err == nil,
		Kind:    source.KindOf(err),
	}
	if err != nil {
		status.Message = source.Message(err)
		return jsonFailure(c, fiber.StatusServiceUnavailable, status.Message, status)
	}
	return jsonSuccess(c, status)
}
