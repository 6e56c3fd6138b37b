package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appledger "github.com/MrJorgx/PracticasExt/internal/application/ledger"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/cache"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/config"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/event"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/logger"
	"github.com/MrJorgx/PracticasExt/internal/infrastructure/telemetry"
	"github.com/MrJorgx/PracticasExt/internal/interfaces/http/handler"
	"github.com/MrJorgx/PracticasExt/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting ledger service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database_driver", cfg.Database.Driver),
	)

	telCfg := telemetry.ConfigFrom(cfg.Telemetry)
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telCfg, log)
	if err != nil {
		return err
	}
	defer shutdownWithLog(log, "tracer provider", tracerProvider.Shutdown)

	meterProvider, err := telemetry.NewMeterProvider(ctx, telCfg, log)
	if err != nil {
		return err
	}
	defer shutdownWithLog(log, "meter provider", meterProvider.Shutdown)

	var tp trace.TracerProvider
	if tracerProvider.IsEnabled() {
		tp = tracerProvider.Provider()
	}

	store, err := openStorage(ctx, cfg, tp, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			log.Error("Error closing storage", zap.Error(err))
		}
	}()

	eventBus := event.NewInMemoryEventBus(log)
	metrics, err := telemetry.NewLedgerMetrics(meterProvider.Meter("ledger"))
	if err != nil {
		return err
	}
	eventBus.Subscribe(metrics)
	if err := eventBus.Start(ctx); err != nil {
		return err
	}
	defer shutdownWithLog(log, "event bus", eventBus.Stop)

	clienteService := appledger.NewClienteService(store.clientes, store.recibos, store.txScope, log)
	reciboService := appledger.NewReciboService(store.clientes, store.recibos, store.txScope, log)
	clienteService.SetEventPublisher(eventBus)
	reciboService.SetEventPublisher(eventBus)

	checks := map[string]handler.Pinger{"database": store.ping}

	engineCfg := router.EngineConfig{
		HTTP:           cfg.HTTP,
		Logger:         log,
		TracerProvider: tp,
		ServiceName:    telCfg.ServiceName,
		IdempotencyTTL: cfg.Idempotency.TTL,
		Clientes:       handler.NewClienteHandler(clienteService),
		Recibos:        handler.NewReciboHandler(reciboService),
	}
	if cfg.Idempotency.Enabled {
		idemStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cfg.Idempotency.TTL,
			cache.WithLogger(log),
		).CreateStore(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := idemStore.Close(); err != nil {
				log.Warn("Error closing idempotency store", zap.Error(err))
			}
		}()
		if pinger, ok := idemStore.(handler.Pinger); ok {
			checks["redis"] = pinger
		}
		engineCfg.IdempotencyStore = idemStore
	}
	engineCfg.Health = handler.NewHealthHandler(checks)

	engine, err := router.NewEngine(engineCfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}
	return serve(ctx, srv, cfg.HTTP.ShutdownTimeout, log)
}

// serve runs srv until ctx is cancelled, then drains in-flight requests
// within shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, log *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func shutdownWithLog(log *zap.Logger, name string, shutdown func(context.Context) error) {
	if err := shutdown(context.Background()); err != nil {
		log.Warn("Shutdown failed", zap.String("component", name), zap.Error(err))
	}
}
