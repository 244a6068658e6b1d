// Package cli is the broadcaster command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"broadcaster/internal/app"
	"broadcaster/internal/config"
	"broadcaster/internal/logging"
	"broadcaster/internal/metrics"
)

// env holds what every subcommand needs once the root command has set up.
type env struct {
	app      *app.App
	services *app.Services
	logger   *slog.Logger
	out      io.Writer
}

// Options customises the root command. Zero values are fine.
type Options struct {
	Logger *slog.Logger
	Out    io.Writer
}

// NewRootCommand builds the command tree. Configuration is loaded from the
// environment (and .env) before any subcommand runs.
func NewRootCommand(opts Options) *cobra.Command {
	var (
		metricsAddr string
		e           env
	)

	root := &cobra.Command{
		Use:   "broadcaster",
		Short: "Compose and send WhatsApp broadcasts",
		Long: `Compose and send WhatsApp broadcasts through the dashboard API.

Recipients come from comma-separated numbers and/or a CSV file. Messages are
either direct text with optional media, or a pre-approved template with
positional variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.Logger
			if logger == nil {
				logCfg, err := logging.FromEnv("broadcaster")
				logger = logging.New(logCfg)
				if err != nil {
					logger.Warn("invalid logging settings, using defaults", "error", err)
				}
			}

			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				cfg.Metrics.Addr = metricsAddr
			}

			var m *metrics.Metrics
			if cfg.Metrics.Addr != "" {
				m = metrics.New()
				go func() {
					if err := m.Serve(cmd.Context(), cfg.Metrics.Addr, logger); err != nil {
						logger.Error("metrics server failed", "error", err)
					}
				}()
			}

			a, err := app.New(cmd.Context(), app.Options{
				Config:  cfg,
				Logger:  logger,
				Metrics: m,
			})
			if err != nil {
				return err
			}

			sessions, err := a.SessionProvider(cmd.Context())
			if err != nil {
				_ = a.Close()
				return err
			}

			e = env{
				app:      a,
				services: a.Services(sessions),
				logger:   logger,
				out:      cmd.OutOrStdout(),
			}
			if opts.Out != nil {
				e.out = opts.Out
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.app == nil {
				return nil
			}
			return e.app.Close()
		},
	}

	root.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")

	root.AddCommand(
		newTemplatesCommand(&e),
		newPreviewCommand(&e),
		newRecipientsCommand(&e),
		newSendCommand(&e),
		newHistoryCommand(&e),
	)

	return root
}

// Execute runs the command tree and reports the user-facing error.
func Execute(ctx context.Context) error {
	root := NewRootCommand(Options{})
	root.SilenceErrors = true

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", statusLine(err))
	}
	return err
}
