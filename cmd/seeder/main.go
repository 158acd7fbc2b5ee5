// Command seeder loads the demo marketplace into the configured database:
// three donors with listings, a shelter holding one claim and a volunteer
// rescuer. Existing accounts are reused and donations are only written to
// an empty table, so the command can be re-run safely.
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
	"github.com/Saifff-551/foodhelp/internal/adapter/postgres/donation"
	"github.com/Saifff-551/foodhelp/internal/adapter/postgres/user"
	"github.com/Saifff-551/foodhelp/internal/app"
	"github.com/Saifff-551/foodhelp/internal/app/demo"
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

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, logger); err != nil {
		logger.Error("migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	res, err := demo.Seed(ctx, user.New(pool), donation.New(pool), time.Now().UTC(), logger)
	if err != nil {
		logger.Error("seed demo data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seeder finished",
		slog.Int("users_created", res.UsersCreated),
		slog.Int("donations_created", res.DonationsCreated))
}
