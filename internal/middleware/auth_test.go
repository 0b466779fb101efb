package middleware

import (
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaigndash/internal/config"
	"campaigndash/internal/models"
)

func newTestApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	sessionMiddleware, _ := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	auth := NewAuthMiddleware(cfg)

	app.Post("/login-as", func(c fiber.Ctx) error {
		StoreUser(session.FromContext(c), &models.User{Sub: "abc", Name: "Ana Souza"})
		return c.SendString("ok")
	})
	app.Get("/redirect-target", func(c fiber.Ctx) error {
		return c.SendString(TakeRedirect(session.FromContext(c)))
	})
	app.Get("/", auth.RequireAuth, func(c fiber.Ctx) error {
		user, _ := c.Locals("user").(*models.User)
		if user == nil {
			return c.SendString("anonymous")
		}
		return c.SendString(user.DisplayName())
	})
	app.Get("/api/critical", auth.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString("data")
	})
	return app
}

func TestRequireAuthPassesThroughWithoutOIDC(t *testing.T) {
	app := newTestApp(&config.Config{})

	resp, err := app.Test(httpRequest(t, http.MethodGet, "/"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "anonymous", string(body))
}

func TestRequireAuthRedirectsPages(t *testing.T) {
	app := newTestApp(&config.Config{OIDCIssuer: "https://issuer.example.com"})

	resp, err := app.Test(httpRequest(t, http.MethodGet, "/?tab=stats"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.StatusCode, 300)
	assert.Less(t, resp.StatusCode, 400)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	// the original URL is kept for after the login
	req := httpRequest(t, http.MethodGet, "/redirect-target")
	for _, c := range resp.Cookies() {
		req.AddCookie(c)
	}
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "/?tab=stats", string(body))
}

func TestRequireAuthRejectsAPI(t *testing.T) {
	app := newTestApp(&config.Config{OIDCIssuer: "https://issuer.example.com"})

	resp, err := app.Test(httpRequest(t, http.MethodGet, "/api/critical"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":"error","error":"unauthorized"}`, string(body))
}

func TestRequireAuthLoadsSessionUser(t *testing.T) {
	app := newTestApp(&config.Config{OIDCIssuer: "https://issuer.example.com"})

	resp, err := app.Test(httpRequest(t, http.MethodPost, "/login-as"))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	req := httpRequest(t, http.MethodGet, "/")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Ana Souza", string(body))
}

func httpRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, target, nil)
	require.NoError(t, err)
	return req
}
