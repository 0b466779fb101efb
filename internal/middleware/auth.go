package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"campaigndash/internal/config"
	"campaigndash/internal/models"
)

// Session keys holding the logged-in user's claims.
const (
	sessionUserSub     = "user_sub"
	sessionUserEmail   = "user_email"
	sessionUserName    = "user_name"
	sessionUserPicture = "user_picture"
	sessionRedirect    = "redirect_after_login"
)

// AuthMiddleware handles user authentication via sessions.
type AuthMiddleware struct {
	cfg *config.Config
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// RequireAuth ensures the user is authenticated when OIDC login is
// configured. Pages redirect to /login; API requests get a 401 envelope.
// Without OIDC every request passes through.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	if !m.cfg.OIDCEnabled() {
		return c.Next()
	}

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	user := LoadUser(sess)
	if user == nil {
		if isAPI(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error",
				"error":  "unauthorized",
			})
		}
		if c.Method() == fiber.MethodGet {
			sess.Set(sessionRedirect, c.OriginalURL())
		}
		return c.Redirect().To("/login")
	}

	c.Locals("user", user)
	return c.Next()
}

func isAPI(c fiber.Ctx) bool {
	return c.Path() == "/api" || strings.HasPrefix(c.Path(), "/api/")
}

// StoreUser writes the user's claims to the session.
func StoreUser(sess *session.Middleware, user *models.User) {
	sess.Set(sessionUserSub, user.Sub)
	sess.Set(sessionUserEmail, user.Email)
	sess.Set(sessionUserName, user.Name)
	sess.Set(sessionUserPicture, user.Picture)
}

// LoadUser reads the user's claims from the session, or nil when nobody
// is logged in.
func LoadUser(sess *session.Middleware) *models.User {
	sub, _ := sess.Get(sessionUserSub).(string)
	if sub == "" {
		return nil
	}
	email, _ := sess.Get(sessionUserEmail).(string)
	name, _ := sess.Get(sessionUserName).(string)
	picture, _ := sess.Get(sessionUserPicture).(string)
	return &models.User{Sub: sub, Email: email, Name: name, Picture: picture}
}

// TakeRedirect returns and forgets the URL saved before the login redirect.
func TakeRedirect(sess *session.Middleware) string {
	target, _ := sess.Get(sessionRedirect).(string)
	if target != "" {
		sess.Delete(sessionRedirect)
	}
	return target
}
