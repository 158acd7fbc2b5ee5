// Package organization implements the OrganizationProfile repository using PostgreSQL.
package organization

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Saifff-551/foodhelp/internal/adapter/postgres"
	"github.com/Saifff-551/foodhelp/internal/domain"
)

const table = "organization_profiles"

var columns = []string{
	"id", "user_id", "type", "name", "registration_number", "contact_person",
	"phone", "address", "maps_url", "is_verified", "verified_at", "created_at",
}

// Repo provides organization profile persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new organization repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new unverified profile. A second profile of the same type
// for the same user returns domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, p *domain.OrganizationProfile) (*domain.OrganizationProfile, error) {
	query, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(p.ID, p.UserID, string(p.Type), p.Name, p.RegistrationNumber, p.ContactPerson,
			p.Phone, p.Address, p.MapsURL, false, nil, p.CreatedAt).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create organization: %w", err)
	}

	out, err := scanProfile(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "organization", p.ID)
	}
	return out, nil
}

// GetByID returns a profile of the given type by primary key.
func (r *Repo) GetByID(ctx context.Context, typ domain.OrganizationType, id uuid.UUID) (*domain.OrganizationProfile, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id, "type": string(typ)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get organization: %w", err)
	}

	p, err := scanProfile(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "organization", id)
	}
	return p, nil
}

// ListByUser returns every profile owned by userID.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.OrganizationProfile, error) {
	return r.list(ctx, postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at"))
}

// ListPending returns unverified profiles, oldest first.
func (r *Repo) ListPending(ctx context.Context) ([]domain.OrganizationProfile, error) {
	return r.list(ctx, postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"is_verified": false}).
		OrderBy("created_at", "id"))
}

// Verify marks the profile verified. Verifying an already verified profile
// keeps the original verified_at.
func (r *Repo) Verify(ctx context.Context, typ domain.OrganizationType, id uuid.UUID) (*domain.OrganizationProfile, error) {
	query, args, err := postgres.Builder().
		Update(table).
		Set("is_verified", true).
		Set("verified_at", sq.Expr("COALESCE(verified_at, ?)", time.Now().UTC())).
		Where(sq.Eq{"id": id, "type": string(typ)}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build verify organization: %w", err)
	}

	p, err := scanProfile(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "organization", id)
	}
	return p, nil
}

// IsVerified reports whether userID owns a verified profile of the given type.
func (r *Repo) IsVerified(ctx context.Context, userID uuid.UUID, typ domain.OrganizationType) (bool, error) {
	query, args, err := postgres.Builder().
		Select("1").
		Prefix("SELECT EXISTS (").
		From(table).
		Where(sq.Eq{"user_id": userID, "type": string(typ), "is_verified": true}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build is verified: %w", err)
	}

	var ok bool
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, postgres.MapError(err, "organization", userID)
	}
	return ok, nil
}

// ListVerifiedUserIDs returns the subset of userIDs that own a verified
// profile of the given type.
func (r *Repo) ListVerifiedUserIDs(ctx context.Context, typ domain.OrganizationType, userIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query, args, err := postgres.Builder().
		Select("DISTINCT user_id").
		From(table).
		Where(sq.Eq{"user_id": userIDs, "type": string(typ), "is_verified": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list verified: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "organization", uuid.Nil)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, postgres.MapError(err, "organization", uuid.Nil)
	}
	return ids, nil
}

func (r *Repo) list(ctx context.Context, b sq.SelectBuilder) ([]domain.OrganizationProfile, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list organizations: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "organization", uuid.Nil)
	}
	defer rows.Close()

	out := []domain.OrganizationProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, postgres.MapError(err, "organization", uuid.Nil)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "organization", uuid.Nil)
	}
	return out, nil
}

func scanProfile(row pgx.Row) (*domain.OrganizationProfile, error) {
	var (
		p   domain.OrganizationProfile
		typ string
	)
	err := row.Scan(&p.ID, &p.UserID, &typ, &p.Name, &p.RegistrationNumber, &p.ContactPerson,
		&p.Phone, &p.Address, &p.MapsURL, &p.IsVerified, &p.VerifiedAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Type = domain.OrganizationType(typ)
	return &p, nil
}
