package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/javiermolinar/tenmin/internal/api"
	"github.com/javiermolinar/tenmin/internal/engine"
	"github.com/javiermolinar/tenmin/internal/timeblock"
)

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the planner headless behind an HTTP API",
		Long: `Start the reconciliation engine and expose it over a JSON HTTP API.

The window ages on its own while the server runs. Stop it with Ctrl+C.`,
		Example: `  tenmin serve
  tenmin serve --addr 0.0.0.0:8710`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.config.Server
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := engine.OptionsFromConfig(a.config)
			opts.Clock = a.clock
			e, err := engine.New(opts)
			if err != nil {
				return err
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return e.Run(gctx) })
			g.Go(func() error { return api.NewServer(e, cfg).Run(gctx) })
			g.Go(func() error {
				printNotices(gctx, cmd.OutOrStdout(), e.Notices())
				return nil
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to config)")
	return cmd
}

// printNotices echoes the engine's notice stream to the console.
func printNotices(ctx context.Context, out io.Writer, notices <-chan timeblock.Notice) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-notices:
			fmt.Fprintf(out, "%s %s", formatMuted(time.Now().Format(time.TimeOnly)), RenderNotices([]timeblock.Notice{n}))
		}
	}
}
