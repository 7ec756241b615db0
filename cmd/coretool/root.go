package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/udisondev/corebank/internal/config"
	"github.com/udisondev/corebank/internal/db"
)

const defaultConfigPath = "config/coreserver.yaml"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "coretool",
		Short:         "Core progression operator tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if v, _ := cmd.Flags().GetBool("verbose"); v {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	root.PersistentFlags().String("config", "", "Path to server config (overrides CORES_CONFIG env var)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Debug logging to stderr")

	root.AddCommand(newSimulateCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newSyncHexCmd())
	return root
}

// loadConfig resolves the config path using --config flag (highest priority),
// then CORES_CONFIG env var, then the default path.
func loadConfig(cmd *cobra.Command) (config.CoreServer, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("CORES_CONFIG")
	}
	if path == "" {
		path = defaultConfigPath
	}
	return config.LoadCoreServer(path)
}

// openRepository connects to the configured database and applies migrations.
// The returned func closes the pool.
func openRepository(ctx context.Context, cmd *cobra.Command) (*db.ProgressionRepository, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		database.Close()
		return nil, nil, err
	}
	return database.Progression(), database.Close, nil
}
