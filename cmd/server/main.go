package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/redtrack/internal/server"
	"github.com/iudanet/redtrack/internal/server/config"
	"github.com/iudanet/redtrack/internal/server/storage"
	"github.com/iudanet/redtrack/internal/server/storage/boltdb"
	"github.com/iudanet/redtrack/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Ошибка инициализации хранилища фатальна: работать без него нельзя
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init storage (%s): %w", cfg.StorageDriver, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage", slog.Any("error", err))
		}
	}()

	logger.Info("Storage initialized",
		"driver", cfg.StorageDriver,
		"path", cfg.DatabasePath,
	)

	srv := server.New(cfg, logger, store, Version)
	return srv.Run(ctx)
}

// openStorage открывает хранилище по драйверу из конфигурации
func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		return sqlite.New(ctx, cfg.DatabasePath)
	case config.DriverBolt:
		return boltdb.New(ctx, cfg.DatabasePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func printVersion() {
	fmt.Printf("RedTrack Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
