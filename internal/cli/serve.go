package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"campaigndash/internal/dashboard"
	"campaigndash/internal/deadline"
	"campaigndash/internal/jobs"
	"campaigndash/internal/metrics"
	"campaigndash/internal/server"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var addr string

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the dashboard HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "Listen address; overrides SERVER_ADDR",
				Category:    "Server",
				Destination: &addr,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, yamlCfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ServerAddr = addr
			}

			// The deadline gauges read the service, which needs the loader
			// that reports to the recorder.
			var svc *dashboard.Service
			recorder := metrics.Init(func() (deadline.Summary, bool) {
				if svc == nil {
					return deadline.Summary{}, false
				}
				return svc.DeadlineSummary()
			})

			loader := newLoader(cfg, newSource(ctx, cfg), recorder)
			svc = dashboard.NewService(loader, yamlCfg.Columns)

			ds := loader.Load(ctx, false)
			slog.Info("dataset loaded",
				slog.String("source", ds.Source),
				slog.Int("rows", ds.Table.NumRows()),
				slog.Bool("sample", ds.Sample),
			)

			srv := server.New(cfg)
			if err := srv.RegisterRoutes(ctx, svc, recorder); err != nil {
				return goerr.Wrap(err, "failed to register routes")
			}

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			if cfg.AutoRefreshInterval > 0 {
				go jobs.NewRefresher(loader, cfg.AutoRefreshInterval).Start(runCtx)
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case err := <-errCh:
				if err != nil {
					return goerr.Wrap(err, "HTTP server error")
				}
				return nil
			case <-ctx.Done():
				slog.Info("context cancelled, shutting down")
			case sig := <-sigChan:
				slog.Info("signal received, shutting down", slog.Any("signal", sig))
			}
			cancel()

			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancelShutdown()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			slog.Info("server shutdown complete")
			return nil
		},
	}
}
