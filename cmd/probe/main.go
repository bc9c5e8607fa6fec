package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emopulse/emopulse-api/internal/probe"
	"github.com/emopulse/emopulse-api/pkg/logger"
)

const defaultRunTimeout = 5 * time.Minute

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "probe",
		Short:         "Check a running Emopulse API against its route catalog",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cfg := probe.DefaultConfig()
	var logLevel string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Probe every endpoint and report non-conforming responses",
		Example: `  probe run
  probe run --url http://localhost:3000 --workers 16 --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return err
			}
			if err := logger.SetLevelString(logLevel); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
			defer cancel()

			_, err := probe.Run(ctx, cfg, cmd.OutOrStdout())
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "Base URL of the service")
	flags.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of concurrent checks")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "List passing checks too")
	flags.BoolVar(&cfg.NoColor, "no-color", false, "Disable coloured output")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	return cmd
}
