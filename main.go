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

	"noto/auth"
	"noto/config"
	"noto/handlers"
	"noto/logger"
	"noto/ratelimit"
	"noto/store"
	"noto/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Format:      cfg.LogFormat,
		Environment: cfg.Environment,
		Level:       logger.ParseLevel(cfg.LogLevel),
		AddSource:   !cfg.IsProduction(),
	})

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped with error", "error", err)
	}
	log.Info("stopped")
}

// run owns every resource it opens, so deferred cleanup happens before main
// decides the exit code.
func run(cfg *config.Config, log *logger.Logger) error {
	log.Info("starting", "environment", cfg.Environment, "addr", cfg.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := utils.OpenDB(ctx, utils.PoolConfig{
		DSN:             cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		ConnectTimeout:  cfg.DBConnectTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer dbPool.Close()

	if err := store.Migrate(ctx, dbPool); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	var revoker auth.Revoker = auth.NoopRevoker{}
	if cfg.RedisURL != "" {
		redisPool, err := utils.OpenRedisPool(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisPool.Close()
		revoker = auth.NewRedisRevoker(redisPool)
	} else {
		log.Warn("REDIS_URL not set; logout will not revoke tokens")
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("create token service: %w", err)
	}

	db := store.New(dbPool)
	mailer := utils.NewMailer(cfg.SendGridAPIKey, cfg.MailFrom)
	authService := auth.NewService(db, tokens, revoker, mailer, log)

	limiter := ratelimit.New(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst, 10*time.Minute)
	defer limiter.Stop()

	if len(cfg.TrustedProxies) == 0 {
		log.Info("no trusted proxies; forwarding headers are ignored")
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: handlers.NewServer(handlers.Deps{
			Auth:           authService,
			Tasks:          db,
			Tags:           db,
			Health:         db,
			AuthLimiter:    limiter,
			Logger:         log,
			CORSOrigins:    cfg.CORSAllowedOrigins,
			TrustedProxies: cfg.TrustedProxies,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	return serveErr
}
