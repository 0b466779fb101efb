package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"campaigndash/internal/source"
)

func cmdCheck() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Verify that the configured data source accepts its credentials",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			loader := newLoader(cfg, newSource(ctx, cfg), nil)
			w := c.Root().Writer
			if err := loader.Check(ctx); err != nil {
				fmt.Fprintf(w, "%s: %s (%s)\n", loader.SourceName(), source.Message(err), source.KindOf(err))
				return goerr.Wrap(err, "connection check failed", goerr.V("source", loader.SourceName()))
			}
			fmt.Fprintf(w, "%s: connection OK\n", loader.SourceName())
			return nil
		},
	}
}
