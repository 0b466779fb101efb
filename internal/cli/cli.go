package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"campaigndash/internal/logging"
)

// Run runs the CLI application.
func Run(ctx context.Context, args []string) error {
	var (
		logLevel  string
		logFormat string
		envFile   string
	)

	app := &cli.Command{
		Name:  "campaigndash",
		Usage: "Campaign request dashboard over a shared worksheet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				Category:    "Logging",
				Value:       "info",
				Sources:     cli.EnvVars("LOG_LEVEL"),
				Destination: &logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "Log format (console, json, auto)",
				Category:    "Logging",
				Value:       "auto",
				Sources:     cli.EnvVars("LOG_FORMAT"),
				Destination: &logFormat,
			},
			&cli.StringFlag{
				Name:        "env-file",
				Usage:       "Dotenv file loaded before reading configuration; ignored when absent",
				Value:       ".env",
				Destination: &envFile,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := loadEnvFile(envFile); err != nil {
				return nil, err
			}
			if _, err := logging.Setup(logLevel, logFormat); err != nil {
				return nil, err
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdExport(),
			cmdCheck(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		return goerr.Wrap(err, "CLI execution failed")
	}
	return nil
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return goerr.Wrap(err, "loading env file", goerr.V("path", path))
	}
	slog.Debug("loaded env file", "path", path)
	return nil
}
