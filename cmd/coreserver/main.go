package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/corebank/internal/ai"
	"github.com/udisondev/corebank/internal/config"
	"github.com/udisondev/corebank/internal/db"
	"github.com/udisondev/corebank/internal/gameserver"
	"github.com/udisondev/corebank/internal/world"
)

const ConfigPath = "config/coreserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("CORES_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadCoreServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("core server starting",
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"bind", cfg.BindAddress,
		"port", cfg.Port,
		"tick_rate", cfg.TickRate)

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	w := world.New()
	spawner := world.NewSpawner(w, world.RegionsFromConfig(cfg.Regions))
	for _, p := range world.PointsFromConfig(cfg.Spawns) {
		if _, err := spawner.AddPoint(p); err != nil {
			return fmt.Errorf("spawning %q: %w", p.Name, err)
		}
	}
	slog.Info("world initialized",
		"monsters", w.MonsterCount(),
		"protected_regions", len(spawner.Regions()))

	ticks := ai.NewTickManager(cfg.TickRate)
	srv := gameserver.NewServer(cfg, w, spawner, ticks, database.Progression())
	defer func() {
		if err := srv.Close(); err != nil {
			slog.Error("closing core server", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting tick manager", "rate", cfg.TickRate)
		if err := ticks.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("tick manager: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting autosave", "interval", cfg.AutosaveInterval)
		return srv.Autosave(gctx)
	})

	g.Go(func() error {
		if err := srv.Run(gctx); err != nil {
			return fmt.Errorf("core server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
