// Package token implements the RefreshToken repository using PostgreSQL.
package token

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Saifff-551/foodhelp/internal/adapter/postgres"
	"github.com/Saifff-551/foodhelp/internal/domain"
)

const table = "refresh_tokens"

// Repo provides refresh-token persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new token repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new refresh token.
func (r *Repo) Create(ctx context.Context, token *domain.RefreshToken) error {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns("user_id", "token_hash", "expires_at").
		Values(token.UserID, token.TokenHash, token.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create token: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "refresh_token", uuid.Nil)
	}
	return nil
}

// GetByHash returns an active (non-revoked, non-expired) refresh token by its hash.
// Returns domain.ErrNotFound if the token does not exist, is revoked, or is expired.
func (r *Repo) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	query, args, err := postgres.Builder().
		Select("id", "user_id", "token_hash", "expires_at", "created_at", "revoked_at").
		From(table).
		Where(sq.Eq{"token_hash": tokenHash, "revoked_at": nil}).
		Where(sq.Gt{"expires_at": time.Now().UTC()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get token: %w", err)
	}

	var t domain.RefreshToken
	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).
		Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt, &t.RevokedAt)
	if err != nil {
		return nil, postgres.MapError(err, "refresh_token", uuid.Nil)
	}
	return &t, nil
}

// RevokeByID revokes a specific refresh token by setting revoked_at.
// Idempotent: revoking an already-revoked token is not an error.
func (r *Repo) RevokeByID(ctx context.Context, id uuid.UUID) error {
	query, args, err := postgres.Builder().
		Update(table).
		Set("revoked_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "revoked_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build revoke token: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "refresh_token", id)
	}
	return nil
}

// RevokeAllByUser revokes all active refresh tokens for the given user.
func (r *Repo) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	query, args, err := postgres.Builder().
		Update(table).
		Set("revoked_at", time.Now().UTC()).
		Where(sq.Eq{"user_id": userID, "revoked_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build revoke user tokens: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "refresh_token", userID)
	}
	return nil
}

// DeleteExpired removes all expired or revoked tokens from the database.
// Returns the count of deleted tokens.
func (r *Repo) DeleteExpired(ctx context.Context) (int, error) {
	query, args, err := postgres.Builder().
		Delete(table).
		Where(sq.Or{
			sq.LtOrEq{"expires_at": time.Now().UTC()},
			sq.NotEq{"revoked_at": nil},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired tokens: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "refresh_token", uuid.Nil)
	}
	return int(tag.RowsAffected()), nil
}
