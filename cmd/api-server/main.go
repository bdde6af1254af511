package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/medibot/clinic-scheduler/internal/api"
	"github.com/medibot/clinic-scheduler/internal/clinic"
	"github.com/medibot/clinic-scheduler/internal/config"
	"github.com/medibot/clinic-scheduler/internal/db"
	"github.com/medibot/clinic-scheduler/internal/notify"
	"github.com/medibot/clinic-scheduler/internal/redisclient"
	"github.com/medibot/clinic-scheduler/internal/schedule"
	"github.com/medibot/clinic-scheduler/internal/sheet"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.Env)
	defer logger.Sync()

	logger.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("store_backend", cfg.StoreBackend))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := buildStore(rootCtx, cfg)
	if err != nil {
		logger.Fatal("store init error", zap.Error(err))
	}
	defer cleanup()

	var locker redisclient.Locker = redisclient.NopLocker{}
	if cfg.RedisAddr != "" {
		rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			logger.Fatal("redis connection error", zap.Error(err))
		}
		defer rdb.Close()
		locker = redisclient.NewRedisBookingLocker(rdb, cfg.LockTTL)
		logger.Info("booking lock enabled", zap.String("redis_addr", cfg.RedisAddr))
	}

	var mailer notify.Mailer = notify.NopMailer{}
	if cfg.MailGatewayURL != "" {
		mailer = notify.NewGatewayMailer(cfg.MailGatewayURL, cfg.MailGatewayTok, logger)
	}

	resolver := clinic.NewResolver(store, cfg.SettingsTTL, logger)
	avail := schedule.NewAvailability(store, resolver, logger)
	booking := schedule.NewBooking(store, avail, resolver, locker, mailer, logger)
	query := schedule.NewQuery(store, logger)

	router := api.NewRouter(api.RouterConfig{
		Resolver:     resolver,
		Availability: avail,
		Booking:      booking,
		Query:        query,
		Logger:       logger,
		Env:          cfg.Env,
		Version:      version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("api-server stopped")
}

func newLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

func buildStore(ctx context.Context, cfg config.Config) (sheet.Store, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		pgCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		pool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		store := sheet.NewPgStore(pool)
		if err := store.EnsureSchema(pgCtx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	case "memory":
		return sheet.NewMemoryStore(), func() {}, nil
	default:
		return sheet.NewExcelStore(cfg.DataDir), func() {}, nil
	}
}
