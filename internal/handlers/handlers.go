package handlers

import (
	"html"
	"net/url"

	"github.com/gofiber/fiber/v3"

	"campaigndash/internal/models"
	"campaigndash/internal/view"
)

// htmxError returns an error message as HTML that HTMX will display.
// Uses 200 status so HTMX processes the swap (HTMX ignores non-2xx by default).
func htmxError(c fiber.Ctx, message string) error {
	return c.SendString(
		`<div class="alert alert-error">` + html.EscapeString(message) + `</div>`,
	)
}

// isHTMX reports whether the request was issued by HTMX.
func isHTMX(c fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

// currentUser returns the logged-in user, or nil when login is disabled.
func currentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// requestState parses the view state from the query string.
func requestState(c fiber.Ctx) view.State {
	q, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return view.DefaultState()
	}
	return view.ParseState(q)
}
