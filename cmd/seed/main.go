// Command seed loads synthetic profiles into a running roommatch service and
// verifies the rankings it returns.
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/roommatch/internal/seeder"
	"github.com/okian/roommatch/pkg/logger"
)

// Default worker count multiplier for runtime.NumCPU().
const defaultWorkers = 2

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newSeedCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newSeedCmd() *cobra.Command {
	cfg := seeder.Config{}
	var (
		logFormat string
		logLevel  string
	)
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Seed synthetic profiles and verify rankings",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithFormat(logFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return err
			}
			if err := logger.SetLevelString(logLevel); err != nil {
				return err
			}
			_, err := seeder.Run(cmd.Context(), cfg, logger.Named("seeder"))
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", seeder.DefaultBaseURL, "base URL of the service")
	f.IntVar(&cfg.Users, "users", seeder.DefaultUsers, "number of profiles to generate")
	f.IntVar(&cfg.Sample, "sample", seeder.DefaultSample, "number of users whose matches are verified")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "concurrent requests")
	f.DurationVar(&cfg.Timeout, "timeout", seeder.DefaultTimeout, "HTTP request timeout")
	f.Uint64Var(&cfg.Seed, "seed", seeder.DefaultSeed, "generator seed")
	f.IntVar(&cfg.Limit, "limit", seeder.DefaultLimit, "limit passed to GET /matches/{id}; 0 for all")
	f.IntVar(&cfg.IncompletePct, "incomplete", 0, "percentage of profiles sent without a budget")
	f.BoolVar(&cfg.Verbose, "verbose", false, "log every failure")
	f.StringVar(&logFormat, "log-format", "text", "log format: text or json")
	f.StringVar(&logLevel, "log-level", "info", "log level")
	return cmd
}
