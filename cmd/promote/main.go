// Command promote sets a user's role to ADMIN by email address.
// It is used to bootstrap the first admin user.
//
// Usage:
//
//	promote --email=user@example.com
//
// Reads the same configuration as the server and requires DATABASE_DSN.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Saifff-551/foodhelp/internal/adapter/postgres"
	"github.com/Saifff-551/foodhelp/internal/adapter/postgres/user"
	"github.com/Saifff-551/foodhelp/internal/app"
	"github.com/Saifff-551/foodhelp/internal/config"
	"github.com/Saifff-551/foodhelp/internal/domain"
)

func main() {
	email := flag.String("email", "", "email of user to promote to admin")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "Usage: promote --email=user@example.com")
		os.Exit(1)
	}

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

	users := user.New(pool)

	u, err := users.GetByEmail(ctx, *email)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Error("no user with that email", slog.String("email", *email))
		os.Exit(1)
	}
	if err != nil {
		logger.Error("lookup user", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if u.Role == domain.UserRoleAdmin {
		logger.Info("user is already admin", slog.String("email", *email))
		return
	}

	if _, err := users.UpdateRole(ctx, u.ID, domain.UserRoleAdmin.String()); err != nil {
		logger.Error("update role", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("user promoted to admin",
		slog.String("email", *email),
		slog.String("previous_role", u.Role.String()))
}
