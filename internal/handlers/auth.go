package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/oauth2"

	"campaigndash/internal/config"
	"campaigndash/internal/middleware"
	"campaigndash/internal/models"
)

const sessionState = "oauth_state"

// AuthHandler handles OIDC authentication flows.
type AuthHandler struct {
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
	cfg          *config.Config
}

// NewAuthHandler creates a new auth handler with OIDC configuration.
func NewAuthHandler(ctx context.Context, cfg *config.Config) (*AuthHandler, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, goerr.Wrap(err, "discovering OIDC provider", goerr.V("issuer", cfg.OIDCIssuer))
	}

	oauth2Config := oauth2.Config{
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	return &AuthHandler{
		provider:     provider,
		oauth2Config: oauth2Config,
		verifier:     provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID}),
		cfg:          cfg,
	}, nil
}

// Login initiates the OIDC login flow.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	state := generateState()

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	sess.Set(sessionState, state)

	return c.Redirect().To(h.oauth2Config.AuthCodeURL(state))
}

// Callback handles the OIDC callback after authentication.
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	savedState, _ := sess.Get(sessionState).(string)
	if savedState == "" || savedState != c.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	sess.Delete(sessionState)

	oauth2Token, err := h.oauth2Config.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to exchange code")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing id_token")
	}

	idToken, err := h.verifier.Verify(c.Context(), rawIDToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id_token")
	}

	claims := make(map[string]any)
	if err := idToken.Claims(&claims); err != nil {
		return err
	}

	// Some providers only put the subject in the ID token.
	userInfo, err := h.provider.UserInfo(c.Context(), oauth2.StaticTokenSource(oauth2Token))
	if err == nil {
		var extra map[string]any
		if err := userInfo.Claims(&extra); err == nil {
			for k, v := range extra {
				claims[k] = v
			}
		}
	} else {
		slog.Warn("failed to fetch userinfo", "error", err)
	}

	user := userFromClaims(claims)
	if user.Sub == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing subject claim")
	}
	if h.cfg.IsDev() {
		slog.Debug("OIDC login", "sub", user.Sub, "email", user.Email)
	}

	middleware.StoreUser(sess, user)

	return c.Redirect().To(safeReturn(middleware.TakeRedirect(sess)))
}

// Logout clears the user session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		if err := sess.Destroy(); err != nil {
			slog.Warn("failed to destroy session", "error", err)
		}
	}
	return c.Redirect().To("/login")
}

// LoginPage renders the login page.
func LoginPage(cfg *config.Config) fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.Render("login", MergeBranding(fiber.Map{
			"Title": "Sign in",
		}, cfg))
	}
}

func userFromClaims(claims map[string]any) *models.User {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	return &models.User{Sub: sub, Email: email, Name: name, Picture: picture}
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
