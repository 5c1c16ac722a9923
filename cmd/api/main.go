package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/neuralhub/neuralhub-go/internal/config"
	"github.com/neuralhub/neuralhub-go/internal/handler"
	"github.com/neuralhub/neuralhub-go/internal/notify"
	"github.com/neuralhub/neuralhub-go/internal/repository"
	"github.com/neuralhub/neuralhub-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, content, closeStore, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	waitlist, closeWaitlist := openWaitlist(ctx, cfg, logger)
	defer closeWaitlist()

	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.SMTP.Enabled() {
		notifier = notify.NewEmailNotifier(cfg.SMTP, logger)
	}

	if cfg.SeedSampleData {
		if err := service.SeedSampleData(ctx, users, content, cfg.BcryptCost, logger); err != nil {
			return err
		}
	}

	authService := service.NewAuthService(users, notifier, service.AuthOptions{
		JWTSecret:          cfg.JWTSecret,
		TokenExpiry:        cfg.JWTExpiry,
		HashCost:           cfg.BcryptCost,
		AppURL:             cfg.AppURL,
		VerificationBypass: cfg.VerificationBypass,
	}, logger)
	waitlistService := service.NewWaitlistService(waitlist)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "neuralhub",
			Name:      "waitlist_subscribers",
			Help:      "Addresses on the landing page waitlist.",
		}, func() float64 {
			n, err := waitlistService.Count(context.Background())
			if err != nil {
				return 0
			}
			return float64(n)
		}),
	)

	r := handler.NewRouter(ctx, handler.Services{
		Auth:     authService,
		Content:  service.NewContentService(content),
		Library:  service.NewLibraryService(content, users),
		Waitlist: waitlistService,
	}, handler.RouterOptions{
		Logger:        logger,
		Registry:      reg,
		CORSOrigins:   cfg.CORSAllowedOrigins,
		AuthRateLimit: cfg.AuthRateLimit,
		AuthRateBurst: cfg.AuthRateBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.StorageDriver)
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

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func openStores(ctx context.Context, cfg config.Config) (repository.UserStore, repository.ContentStore, func(), error) {
	if cfg.StorageDriver != config.StorageMySQL {
		return repository.NewMemoryUserStore(), repository.NewMemoryContentStore(), func() {}, nil
	}

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	closeDB := func() { closeQuietly(db) }
	return repository.NewUserRepository(db), repository.NewContentRepository(db), closeDB, nil
}

func openWaitlist(ctx context.Context, cfg config.Config, logger *slog.Logger) (repository.WaitlistStore, func()) {
	if cfg.RedisAddr == "" {
		return repository.NewMemoryWaitlist(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, waitlist kept in memory", "addr", cfg.RedisAddr, "error", err)
		rdb.Close()
		return repository.NewMemoryWaitlist(), func() {}
	}

	return repository.NewRedisWaitlist(rdb), func() { rdb.Close() }
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Warn("closing database", "error", err)
	}
}
