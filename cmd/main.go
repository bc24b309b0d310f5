package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/rivals/internal/adapters/kv"
	service "github.com/okian/rivals/internal/app"
	"github.com/okian/rivals/internal/config"
	"github.com/okian/rivals/internal/domain/clock"
	"github.com/okian/rivals/pkg/logger"
)

// Version is reported by --version.
const Version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rivals: "+err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rivals",
		Short:         "Daily prompts and weekly goals against simulated rivals",
		Long:          "rivals runs the competitor scheduler, the daily prompt rotation and the weekly task lifecycle behind a small HTTP API.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	root.AddCommand(
		newServeCmd(),
		newStatusCmd(),
		newResetCmd(),
	)
	return root
}

// setup loads .env and initializes logging. It runs before every sub-command.
func setup() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	return nil
}

// loadConfig reads the configuration and applies the log level.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.LogJSON {
		if err := logger.Init(logger.WithJSON(true)); err != nil {
			return nil, fmt.Errorf("initialize logging: %w", err)
		}
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// openService opens the configured store and builds a Service over it.
// The returned cleanup closes the store.
func openService(ctx context.Context, cfg *config.Config) (*service.Service, func(), error) {
	log := logger.Get()

	store, err := kv.Open(ctx, cfg.StorageDriver, kv.WithDSN(cfg.StorageDSN))
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.StorageDriver, err)
	}
	instrumented := kv.NewInstrumented(store, log.Named("kv"))

	loc, err := cfg.Location()
	if err != nil {
		_ = instrumented.Close()
		return nil, nil, err
	}
	vc := clock.New(
		clock.WithSecondsPerDay(cfg.SecondsPerVirtualDay),
		clock.WithLocation(loc),
	)
	if cfg.Accelerated {
		vc.Enable()
	}

	opts := []service.Option{
		service.WithLogger(log.Named("service")),
		service.WithClock(vc),
		service.WithReward(cfg.CompetitorReward),
		service.WithSuppressHour(cfg.InstallSuppressHour),
		service.WithMaxLeaderboardLimit(cfg.MaxLeaderboardLimit),
		service.WithTickInterval(cfg.TickInterval()),
	}
	if cfg.RandomSeed != 0 {
		opts = append(opts, service.WithSeed(cfg.RandomSeed))
	}
	svc := service.New(instrumented, opts...)

	cleanup := func() {
		if err := instrumented.Close(); err != nil {
			log.Error(ctx, "close store failed", logger.Error(err))
		}
	}
	return svc, cleanup, nil
}
