package server

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/encryptcookie"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/gofiber/fiber/v3/middleware/static"
	redisstore "github.com/gofiber/storage/redis/v3"
	"github.com/gofiber/template/html/v3"
	"github.com/google/uuid"

	"campaigndash/internal/config"
	"campaigndash/internal/deadline"
	"campaigndash/views"
)

// Server wraps the Fiber app and configuration.
type Server struct {
	App *fiber.App
	Cfg *config.Config
}

// New creates a new server with middleware configured.
func New(cfg *config.Config) *Server {
	engine := html.NewFileSystem(http.FS(views.Templates), ".html")
	engine.AddFunc("percent", func(p float64) string {
		return deadline.FormatPercent(p)
	})

	app := fiber.New(fiber.Config{
		Views:        engine,
		ViewsLayout:  "layouts/main",
		ErrorHandler: errorHandler(cfg),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())

	corsOrigins := cfg.BaseURL
	if cfg.CORSOrigins != "" {
		corsOrigins = cfg.CORSOrigins
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(corsOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "HX-Request", "HX-Current-URL", "HX-Target"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: deriveEncryptionKey(sessionSecret(cfg)),
	}))

	sessionConfig := session.Config{
		CookieSecure:   !cfg.IsDev(),
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}
	if cfg.RedisURL != "" {
		sessionConfig.Storage = redisstore.New(redisstore.Config{URL: cfg.RedisURL})
		slog.Info("using redis session storage")
	}
	sessionMiddleware, _ := session.NewWithStore(sessionConfig)
	app.Use(sessionMiddleware)

	app.Get("/static*", static.New("", static.Config{FS: views.Static()}))

	return &Server{
		App: app,
		Cfg: cfg,
	}
}

// Start starts the server on the configured address.
func (s *Server) Start() error {
	slog.Info("starting server", "addr", s.Cfg.ServerAddr)
	return s.App.Listen(s.Cfg.ServerAddr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown gracefully shuts down the server, waiting for open requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}

// exportLimiter bounds downloads and API calls per client IP.
func exportLimiter(cfg *config.Config) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max(cfg.ExportRateLimit, 1),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status": "error",
				"error":  "Rate limit exceeded. Please try again later.",
			})
		},
	})
}

func errorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		} else {
			slog.Error("request failed", "path", c.Path(), "error", err)
		}

		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(code).JSON(fiber.Map{
				"status": "error",
				"error":  message,
			})
		}

		return c.Status(code).Render("error", fiber.Map{
			"Title":       "Error",
			"Message":     message,
			"SiteTitle":   cfg.SiteTitle,
			"SiteTagline": cfg.SiteTagline,
			"SiteFooter":  cfg.SiteFooter,
			"SiteLogoURL": cfg.SiteLogoURL,
		})
	}
}

// sessionSecret returns the configured secret, or a random one that lasts
// until restart.
func sessionSecret(cfg *config.Config) string {
	if cfg.SessionSecret != "" {
		return cfg.SessionSecret
	}
	slog.Warn("SESSION_SECRET not set; sessions will not survive a restart")
	return uuid.NewString()
}

// deriveEncryptionKey derives a 32-byte encryption key from the session secret.
func deriveEncryptionKey(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(hash[:])
}
