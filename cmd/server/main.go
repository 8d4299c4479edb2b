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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"proofsy/internal/capture"
	"proofsy/internal/evidence"
	"proofsy/internal/ledger/handler"
	"proofsy/internal/ledger/notify"
	"proofsy/internal/ledger/service"
	"proofsy/internal/ledger/store"
	"proofsy/internal/media"
	"proofsy/internal/platform/config"
	"proofsy/internal/platform/database"
	"proofsy/internal/platform/httpserver"
	"proofsy/internal/platform/logger"
	"proofsy/internal/platform/metrics"
	"proofsy/internal/platform/middleware"
	"proofsy/internal/platform/redis"
)

// main wires the ledger store, the capture client and the HTTP API, and owns
// the lifecycle of every opened resource.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("proofsy stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	m := metrics.New(nil)

	ledgerStore, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	notifier, closeNotifier, err := openNotifier(ctx, cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer closeNotifier()

	committer := capture.New(cfg.Capture, capture.WithLogger(log), capture.WithMetrics(m))
	linker, err := evidence.New(committer, cfg.Explorer.AssetBase,
		evidence.WithConcurrency(cfg.EvidenceConcurrency),
		evidence.WithLogger(log),
		evidence.WithMetrics(m),
	)
	if err != nil {
		return err
	}
	svc := service.New(ledgerStore, committer, cfg.Explorer.AssetBase,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithNotifier(notifier),
		service.WithEvidenceLinker(linker),
		service.WithMediaIndex(ledgerStore),
	)

	disk, err := media.NewDisk(cfg.Media.Dir)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Use(middleware.Chain(log, m)...)
	router.Handle("/metrics", promhttp.Handler())
	router.Handle(media.URLPrefix+"*", http.StripPrefix(media.URLPrefix, http.FileServer(http.Dir(disk.Dir()))))
	handler.New(svc, disk, handler.Config{
		CaptureBaseURL: cfg.Capture.BaseURL,
		CaptureLive:    cfg.Capture.Live(),
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
		MaxFiles:       cfg.Media.MaxFiles,
	}, log).Register(router)

	writeTimeout := httpserver.WriteTimeout(cfg.Capture.Timeout, cfg.Media.MaxFiles, cfg.EvidenceConcurrency)
	srv := httpserver.New(cfg.Addr, router, writeTimeout)
	errCh := make(chan error, 1)
	go func() {
		mode := "TEST"
		if committer.Live() {
			mode = "LIVE"
		}
		log.Info("starting proofsy",
			"addr", cfg.Addr,
			"store", cfg.Store.Driver,
			"capture_mode", mode,
			"write_timeout", writeTimeout,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// ledgerStore is implemented by every backend: records and the media index
// share one connection.
type ledgerStore interface {
	service.Store
	service.MediaIndex
}

// openStore selects the ledger backend. The returned close function releases
// the underlying connection.
func openStore(ctx context.Context, cfg config.Server, log *slog.Logger) (ledgerStore, func(), error) {
	switch cfg.Store.Driver {
	case "memory":
		log.Warn("ledger store is in memory; records are lost on restart")
		return store.NewInMemory(), func() {}, nil
	case database.DriverSQLite, database.DriverPostgres:
		db, err := database.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		s := store.NewSQL(db, cfg.Store.Driver)
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return s, func() { _ = db.Close() }, nil
	case "redis":
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		if client == nil {
			return nil, nil, errors.New("STORE_DRIVER=redis requires REDIS_URL")
		}
		return store.NewRedis(client.Client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}

func openNotifier(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger) (service.Notifier, func(), error) {
	if !cfg.Enabled() {
		return notify.Noop{}, func() {}, nil
	}
	k, closeFn, err := notify.Dial(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return k, closeFn, nil
}
