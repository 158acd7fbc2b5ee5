// Command cleanup-tokens deletes expired and revoked refresh tokens.
//
// Usage:
//
//	cleanup-tokens
//
// Reads the same configuration as the server and requires DATABASE_DSN.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Saifff-551/foodhelp/internal/adapter/postgres"
	"github.com/Saifff-551/foodhelp/internal/adapter/postgres/token"
	"github.com/Saifff-551/foodhelp/internal/app"
	"github.com/Saifff-551/foodhelp/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)

	if cfg.Database.InMemory() {
		logger.Error("DATABASE_DSN is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	n, err := token.New(pool).DeleteExpired(ctx)
	if err != nil {
		logger.Error("cleanup tokens", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("refresh tokens cleaned up", slog.Int("deleted", n))
}
