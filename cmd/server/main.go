package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailPkg "clubconnect/internal/adapters/email"
	web "clubconnect/internal/adapters/http"
	"clubconnect/internal/adapters/http/perf"
	"clubconnect/internal/adapters/storage"
	clubstore "clubconnect/internal/adapters/storage/club"
	"clubconnect/internal/application/clublock"
	"clubconnect/internal/application/orchestrators"
	"clubconnect/internal/config"
	"clubconnect/internal/domain/account"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server_event", "event", "fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := perf.NewCollector(perf.DefaultRingSize)
	store, closeStore, err := openStore(ctx, cfg, collector)
	if err != nil {
		return err
	}
	defer closeStore()

	locks := clublock.New()
	if cfg.SeedDemo {
		if err := orchestrators.ExecuteSeedDemo(ctx, orchestrators.SeedDemoDeps{Store: store, Locks: locks}); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	handler, err := web.NewMux(ctx, web.Deps{
		Store:     store,
		Locks:     locks,
		Directory: account.DemoDirectory(),
		Notifier:  newNotifier(cfg),
		Collector: collector,
	}, web.Options{
		Secret:             cfg.Secret,
		Production:         cfg.IsProduction(),
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		SlowRequestMs:      cfg.SlowRequestMs,
		TrustedOrigins:     cfg.TrustedOrigins,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_event", "event", "starting", "version", version, "addr", cfg.Addr,
			"env", cfg.Env, "store", cfg.Store, "schema", storage.LatestSchemaVersion())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	slog.Info("server_event", "event", "shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupLogging(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// openStore returns the configured store and a func releasing its resources.
func openStore(ctx context.Context, cfg config.Config, collector *perf.Collector) (clubstore.Store, func(), error) {
	if cfg.Store == config.StoreMemory {
		slog.Warn("server_event", "event", "memory_store", "reason", "data is lost on restart")
		return clubstore.NewMemoryStore(), func() {}, nil
	}

	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.DBPath != ":memory:" {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
	}
	timed := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)
	closeDB := func() {
		if err := timed.Close(); err != nil {
			slog.Error("server_event", "event", "db_close_failed", "error", err)
		}
	}
	return clubstore.NewSQLiteStore(timed), closeDB, nil
}

func newNotifier(cfg config.Config) orchestrators.SlotFullNotifier {
	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		slog.Info("server_event", "event", "email_configured", "provider", "resend", "recipients", len(cfg.NotifyTo))
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("server_event", "event", "email_disabled", "reason", config.Prefix+"RESEND_KEY is not set")
		}
	}
	return orchestrators.EmailSlotFullNotifier{Sender: sender, To: cfg.NotifyTo, Timeout: 5 * time.Second}
}
