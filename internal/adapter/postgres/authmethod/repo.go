// Package authmethod implements the AuthMethod repository using PostgreSQL.
package authmethod

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Saifff-551/foodhelp/internal/adapter/postgres"
	"github.com/Saifff-551/foodhelp/internal/domain"
)

const table = "auth_methods"

var columns = []string{"id", "user_id", "method", "provider_id", "password_hash", "created_at", "updated_at"}

// Repo provides auth_methods persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new auth method repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByOAuth returns the auth method for the given OAuth provider + provider ID.
func (r *Repo) GetByOAuth(ctx context.Context, method domain.AuthMethodType, providerID string) (*domain.AuthMethod, error) {
	return r.getOne(ctx, sq.Eq{"method": string(method), "provider_id": providerID})
}

// GetByUserAndMethod returns the auth method for a user with the given method type.
func (r *Repo) GetByUserAndMethod(ctx context.Context, userID uuid.UUID, method domain.AuthMethodType) (*domain.AuthMethod, error) {
	return r.getOne(ctx, sq.Eq{"user_id": userID, "method": string(method)})
}

func (r *Repo) getOne(ctx context.Context, where sq.Eq) (*domain.AuthMethod, error) {
	query, args, err := postgres.Builder().Select(columns...).From(table).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get auth method: %w", err)
	}

	am, err := scanAuthMethod(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "auth_method", uuid.Nil)
	}
	return am, nil
}

// Create inserts a new auth method row.
func (r *Repo) Create(ctx context.Context, am *domain.AuthMethod) (*domain.AuthMethod, error) {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("user_id", "method", "provider_id", "password_hash").
		Values(am.UserID, string(am.Method), am.ProviderID, am.PasswordHash).
		Suffix("RETURNING id, user_id, method, provider_id, password_hash, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create auth method: %w", err)
	}

	out, err := scanAuthMethod(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "auth_method", am.UserID)
	}
	return out, nil
}

// ListByUser returns all auth methods for a user.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.AuthMethod, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list auth methods: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("auth_method list: %w", err)
	}
	defer rows.Close()

	var result []domain.AuthMethod
	for rows.Next() {
		am, err := scanAuthMethod(rows)
		if err != nil {
			return nil, fmt.Errorf("auth_method list: %w", err)
		}
		result = append(result, *am)
	}
	return result, rows.Err()
}

func scanAuthMethod(row pgx.Row) (*domain.AuthMethod, error) {
	var (
		am     domain.AuthMethod
		method string
	)
	if err := row.Scan(&am.ID, &am.UserID, &method, &am.ProviderID, &am.PasswordHash, &am.CreatedAt, &am.UpdatedAt); err != nil {
		return nil, err
	}
	am.Method = domain.AuthMethodType(method)
	return &am, nil
}
