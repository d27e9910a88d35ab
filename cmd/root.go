package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"country-pipeline/core/config"
	"country-pipeline/core/logger"
	"country-pipeline/core/storage"
	"country-pipeline/feature/countries"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configDir is the directory holding the .env file.
var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "countries",
	Short: "Country reference data pipeline",
	Long: `Countries crawls the REST countries feed and the wiki capitals table,
reconciles them into one record per country and emits exports and an
idempotent SQL upsert.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		// Console format with ISO8601 timestamps, matching interactive use.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "Directory containing the .env file")
}

// bootstrap loads and validates configuration and builds the logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

// newService builds the countries service. withStorage attaches a storage
// client for commands that publish.
func newService(cfg *config.Config, l *zap.Logger, withStorage bool) (*countries.Service, error) {
	var client storage.Client
	if withStorage {
		c, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		client = c
	}
	return countries.NewService(cfg.Countries, cfg.SQL, cfg.Storage, client, l)
}
