package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eonjeswim/eonjeswim/internal/backup"
	"github.com/eonjeswim/eonjeswim/internal/config"
	"github.com/eonjeswim/eonjeswim/internal/database"
	"github.com/eonjeswim/eonjeswim/internal/handler"
	"github.com/eonjeswim/eonjeswim/internal/logging"
	"github.com/eonjeswim/eonjeswim/internal/maintenance"
	"github.com/eonjeswim/eonjeswim/internal/schedule"
	"github.com/eonjeswim/eonjeswim/internal/server"
)

func main() {
	configPath := flag.String("config", config.Path("eonjeswim.yaml"), "path to the YAML config file")
	restoreKey := flag.String("restore", "", "restore the database from this backup key and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := logging.Setup(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer closeLog()

	if err := run(cfg, *restoreKey, logger); err != nil {
		slog.Error("fatal", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func backupConfig(cfg *config.Config) backup.Config {
	return backup.Config{
		S3: backup.S3Config{
			Endpoint:  cfg.Backup.S3.Endpoint,
			Bucket:    cfg.Backup.S3.Bucket,
			Region:    cfg.Backup.S3.Region,
			AccessKey: cfg.Backup.S3.AccessKey,
			SecretKey: cfg.Backup.S3.SecretKey,
		},
		Passphrase:    cfg.Backup.Passphrase,
		RetentionDays: cfg.Backup.RetentionDays,
	}
}

func run(cfg *config.Config, restoreKey string, logger *slog.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	if restoreKey != "" {
		// Restore works on the file, so no connection may be open on it.
		mgr := backup.NewManager(backupConfig(cfg), nil, logger)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := mgr.Restore(ctx, restoreKey, cfg.DBPath); err != nil {
			return fmt.Errorf("restore %s: %w", restoreKey, err)
		}
		logger.Info("database restored", "key", restoreKey, "path", cfg.DBPath)
		return nil
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	mgr := backup.NewManager(backupConfig(cfg), db, logger)

	srv, err := server.New(db, mgr, server.Options{
		BaseURL:         cfg.BaseURL,
		CreatePerMinute: cfg.RateLimit.CreatePerMinute,
		Calendar: handler.Options{
			Holidays:      schedule.NewHolidays(cfg.Holidays...),
			Location:      loc,
			PeriodDays:    cfg.DefaultPeriodDays,
			MaxPeriodDays: cfg.MaxPeriodDays,
		},
	}, logger)
	if err != nil {
		return err
	}

	sched := maintenance.NewScheduler(loc, logger)
	if err := sched.Add("ratelimit-cleanup", cfg.Maintenance.CleanupCron, func(context.Context) error {
		if n := srv.RateLimiter().Cleanup(); n > 0 {
			logger.Debug("rate limit windows dropped", "count", n)
		}
		return nil
	}); err != nil {
		return err
	}
	if cfg.Backup.Enabled() {
		if err := sched.Add("backup", cfg.Backup.Schedule, func(ctx context.Context) error {
			_, err := mgr.Run(ctx)
			return err
		}); err != nil {
			return err
		}
	} else if cfg.Backup.Schedule != "" {
		logger.Warn("backup schedule set but passphrase or bucket missing")
	}
	sched.Start()

	// Websockets are hijacked, so Shutdown leaves them; cancelling baseCtx
	// closes them.
	baseCtx, closeSockets := context.WithCancel(context.Background())
	defer closeSockets()

	// No read or write timeouts: a hijacked websocket keeps the deadlines.
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("eonjeswim listening", "addr", httpServer.Addr, "db", cfg.DBPath, "timezone", loc.String())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		sched.Stop(context.Background())
		return fmt.Errorf("server: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	closeSockets()
	sched.Stop(ctx)
	return nil
}
