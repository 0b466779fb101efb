package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campaigndash/internal/dashboard"
	"campaigndash/internal/handlers"
	"campaigndash/internal/handlers/api"
	"campaigndash/internal/middleware"
)

// RegisterRoutes registers all application routes. recorder may be nil.
func (s *Server) RegisterRoutes(ctx context.Context, svc *dashboard.Service, recorder handlers.ExportRecorder) error {
	authMiddleware := middleware.NewAuthMiddleware(s.Cfg)

	dashboardHandler := handlers.NewDashboardHandler(svc, s.Cfg)
	exportHandler := handlers.NewExportHandler(svc, s.Cfg, recorder)
	probeHandler := handlers.NewProbeHandler(svc)
	datasetAPI := api.NewDatasetHandler(svc)
	healthAPI := api.NewHealthHandler(svc.Loader())

	// Probes and metrics stay unauthenticated
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	s.App.Get("/login", handlers.LoginPage(s.Cfg))
	if s.Cfg.OIDCEnabled() {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	} else {
		slog.Info("OIDC login disabled; set OIDC_ISSUER to require sign-in")
	}

	s.App.Get("/", authMiddleware.RequireAuth, dashboardHandler.Index)
	s.App.Post("/refresh", authMiddleware.RequireAuth, dashboardHandler.Refresh)
	s.App.Post("/cache/clear", authMiddleware.RequireAuth, dashboardHandler.ClearCache)
	s.App.Post("/connection/check", authMiddleware.RequireAuth, dashboardHandler.CheckConnection)

	limit := exportLimiter(s.Cfg)
	s.App.Get("/export", authMiddleware.RequireAuth, limit, exportHandler.Download)
	s.App.Get("/export/:format", authMiddleware.RequireAuth, limit, exportHandler.Download)

	apiGroup := s.App.Group("/api", authMiddleware.RequireAuth, limit)
	apiGroup.Get("/dataset", datasetAPI.Dataset)
	apiGroup.Get("/deadlines", datasetAPI.Deadlines)
	apiGroup.Get("/critical", datasetAPI.Critical)
	apiGroup.Get("/health/source", healthAPI.CheckSource)

	return nil
}
