package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"
)

// jsonSuccess writes data in the {status, data} envelope. Dataset responses
// describe the current load and are marked no-store.
func jsonSuccess(c fiber.Ctx, data any) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError writes message in the {status, error} envelope.
func jsonError(c fiber.Ctx, status int, message string) error {
	return jsonFailure(c, status, message, nil)
}

// jsonFailure writes an error envelope, with data attached when it is not
// nil. Statuses from 500 up are logged.
func jsonFailure(c fiber.Ctx, status int, message string, data any) error {
	if status >= fiber.StatusInternalServerError {
		slog.Warn("api request failed", "path", c.Path(), "status", status, "error", message)
	}

	body := fiber.Map{
		"status": "error",
		"error":  message,
	}
	if data != nil {
		body["data"] = data
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(status).JSON(body)
}
