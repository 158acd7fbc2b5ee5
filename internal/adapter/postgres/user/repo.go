// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Saifff-551/foodhelp/internal/adapter/postgres"
	"github.com/Saifff-551/foodhelp/internal/domain"
)

const table = "users"

var columns = []string{"id", "email", "name", "avatar_url", "role", "created_at", "updated_at"}

const returning = "RETURNING id, email, name, avatar_url, role, created_at, updated_at"

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, sq.Eq{"id": id}, id)
}

// GetByEmail returns a user by email address.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, sq.Eq{"email": email}, uuid.Nil)
}

func (r *Repo) getOne(ctx context.Context, where sq.Eq, id uuid.UUID) (*domain.User, error) {
	query, args, err := postgres.Builder().Select(columns...).From(table).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user: %w", err)
	}

	u, err := scanUser(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return u, nil
}

// Create inserts a new user and returns the persisted domain.User.
// An empty role is stored as PENDING.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	role := u.Role
	if role == "" {
		role = domain.UserRolePending
	}

	query, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(u.ID, u.Email, u.Name, u.AvatarURL, string(role), u.CreatedAt, u.UpdatedAt).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create user: %w", err)
	}

	out, err := scanUser(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "user", u.ID)
	}
	return out, nil
}

// Update modifies name and avatar_url for the given user. Nil values are
// left unchanged.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, name *string, avatarURL *string) (*domain.User, error) {
	b := postgres.Builder().Update(table).Set("updated_at", time.Now().UTC())
	if name != nil {
		b = b.Set("name", *name)
	}
	if avatarURL != nil {
		b = b.Set("avatar_url", *avatarURL)
	}

	query, args, err := b.Where(sq.Eq{"id": id}).Suffix(returning).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update user: %w", err)
	}

	u, err := scanUser(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return u, nil
}

// UpdateRole sets the role unconditionally. Used for privileged updates.
func (r *Repo) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*domain.User, error) {
	query, args, err := postgres.Builder().
		Update(table).
		Set("role", role).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update role: %w", err)
	}

	u, err := scanUser(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return u, nil
}

// AssignRoleIfPending sets the role only while the stored role is PENDING.
// Returns domain.ErrConflict if a role was already assigned.
func (r *Repo) AssignRoleIfPending(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error) {
	query, args, err := postgres.Builder().
		Update(table).
		Set("role", string(role)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "role": string(domain.UserRolePending)}).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build assign role: %w", err)
	}

	u, err := scanUser(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, postgres.MapError(err, "user", id)
	}

	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, fmt.Errorf("user %s: %w", id, domain.ErrConflict)
}

// ListUsers returns users ordered by creation time, newest first.
func (r *Repo) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("created_at DESC", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "user", uuid.Nil)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, postgres.MapError(err, "user", uuid.Nil)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "user", uuid.Nil)
	}
	return out, nil
}

// CountUsers returns the total number of users.
func (r *Repo) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	if err != nil {
		return 0, postgres.MapError(err, "user", uuid.Nil)
	}
	return n, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}
