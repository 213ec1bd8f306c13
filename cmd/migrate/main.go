// Command migrate creates the database schema and exits.
package main

import (
	"context"
	"fmt"
	"os"

	"noto/config"
	"noto/logger"
	"noto/store"
	"noto/utils"
)

func main() {
	log := logger.New(logger.Config{Environment: os.Getenv("APP_ENV")})

	if err := run(context.Background()); err != nil {
		log.Fatal("migration failed", "error", err)
	}
	log.Info("schema is up to date")
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	pool, err := utils.OpenDB(ctx, utils.PoolConfig{
		DSN:            cfg.DatabaseURL,
		MaxConns:       2,
		ConnectTimeout: cfg.DBConnectTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return store.Migrate(ctx, pool)
}
