// Package donation implements the Donation store using PostgreSQL.
package donation

import (
	"context"
	"encoding/json"
	"errors"
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

const table = "donations"

var columns = []string{
	"id", "donor_id", "donor_name", "recipient_id", "recipient_name",
	"rescuer_id", "rescuer_name", "lat", "lng", "address", "items",
	"status", "distance_km", "created_at", "updated_at",
}

var returning = "RETURNING " + strings.Join(columns, ", ")

// Repo provides donation persistence backed by PostgreSQL. Every mutation
// after insert is a single guarded statement, so concurrent writers are
// serialised by the row lock and only one of them sees its guard hold.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new donation repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// List returns every donation ordered by created_at descending.
func (r *Repo) List(ctx context.Context) ([]domain.Donation, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list donations: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "donation", uuid.Nil)
	}
	defer rows.Close()

	var out []domain.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, postgres.MapError(err, "donation", uuid.Nil)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "donation", uuid.Nil)
	}
	return out, nil
}

// GetByID returns a donation by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Donation, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get donation: %w", err)
	}

	d, err := scanDonation(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "donation", id)
	}
	return d, nil
}

// Insert persists a new donation and returns the stored row.
func (r *Repo) Insert(ctx context.Context, d *domain.Donation) (*domain.Donation, error) {
	items, err := encodeItems(d.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}

	query, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(
			d.ID, d.DonorID, d.DonorName, d.RecipientID, d.RecipientName,
			d.RescuerID, d.RescuerName, d.Location.Lat, d.Location.Lng, d.Location.Address, items,
			string(d.Status), d.DistanceKm, d.CreatedAt, d.UpdatedAt,
		).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert donation: %w", err)
	}

	out, err := scanDonation(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "donation", d.ID)
	}
	return out, nil
}

// ConditionalUpdate applies patch only if guard still holds for the stored
// row. Returns domain.ErrConflict when the guard fails and
// domain.ErrNotFound when the row does not exist.
func (r *Repo) ConditionalUpdate(ctx context.Context, id uuid.UUID, guard domain.DonationGuard, patch domain.DonationPatch) (*domain.Donation, error) {
	set := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.RecipientID != nil {
		set["recipient_id"] = *patch.RecipientID
	}
	if patch.RecipientName != nil {
		set["recipient_name"] = *patch.RecipientName
	}
	if patch.RescuerID != nil {
		set["rescuer_id"] = *patch.RescuerID
	}
	if patch.RescuerName != nil {
		set["rescuer_name"] = *patch.RescuerName
	}

	query, args, err := postgres.Builder().
		Update(table).
		SetMap(set).
		Where(guardWhere(id, guard)).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update donation: %w", err)
	}

	d, err := scanDonation(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, postgres.MapError(err, "donation", id)
	}
	return nil, r.missOrConflict(ctx, id)
}

// DeleteIf removes the donation only if guard still holds.
func (r *Repo) DeleteIf(ctx context.Context, id uuid.UUID, guard domain.DonationGuard) error {
	query, args, err := postgres.Builder().
		Delete(table).
		Where(guardWhere(id, guard)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete donation: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "donation", id)
	}
	if tag.RowsAffected() == 0 {
		return r.missOrConflict(ctx, id)
	}
	return nil
}

// missOrConflict tells a missing row apart from a failed guard.
func (r *Repo) missOrConflict(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := postgres.QuerierFromCtx(ctx, r.pool).
		QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM donations WHERE id = $1)`, id).
		Scan(&exists)
	if err != nil {
		return postgres.MapError(err, "donation", id)
	}
	if !exists {
		return fmt.Errorf("donation %s: %w", id, domain.ErrNotFound)
	}
	return fmt.Errorf("donation %s: %w", id, domain.ErrConflict)
}

func guardWhere(id uuid.UUID, g domain.DonationGuard) sq.And {
	where := sq.And{sq.Eq{"id": id}}
	if g.Status != "" {
		where = append(where, sq.Eq{"status": string(g.Status)})
	}
	if g.RescuerUnset {
		where = append(where, sq.Eq{"rescuer_id": nil})
	}
	if g.RescuerID != nil {
		where = append(where, sq.Eq{"rescuer_id": *g.RescuerID})
	}
	if g.DonorID != nil {
		where = append(where, sq.Eq{"donor_id": *g.DonorID})
	}
	return where
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

// itemRecord is the JSONB shape of a food item.
type itemRecord struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category"`
	Quantity     string    `json:"quantity"`
	PreparedTime string    `json:"preparedTime,omitempty"`
	ExpiryTime   string    `json:"expiryTime,omitempty"`
	IsPerishable bool      `json:"isPerishable"`
	SafetyScore  *int      `json:"safetyScore,omitempty"`
	SafetyNotes  *string   `json:"safetyNotes,omitempty"`
	ImageURL     *string   `json:"imageUrl,omitempty"`
	Tags         []string  `json:"tags"`
}

func encodeItems(items []domain.FoodItem) ([]byte, error) {
	recs := make([]itemRecord, len(items))
	for i, it := range items {
		tags := it.Tags
		if tags == nil {
			tags = []string{}
		}
		recs[i] = itemRecord{
			ID:           it.ID,
			Title:        it.Title,
			Description:  it.Description,
			Category:     string(it.Category),
			Quantity:     it.Quantity,
			PreparedTime: it.PreparedTime,
			ExpiryTime:   it.ExpiryTime,
			IsPerishable: it.IsPerishable,
			SafetyScore:  it.SafetyScore,
			SafetyNotes:  it.SafetyNotes,
			ImageURL:     it.ImageURL,
			Tags:         tags,
		}
	}
	return json.Marshal(recs)
}

func decodeItems(raw []byte) ([]domain.FoodItem, error) {
	var recs []itemRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, err
	}
	items := make([]domain.FoodItem, len(recs))
	for i, rec := range recs {
		items[i] = domain.FoodItem{
			ID:           rec.ID,
			Title:        rec.Title,
			Description:  rec.Description,
			Category:     domain.FoodCategory(rec.Category),
			Quantity:     rec.Quantity,
			PreparedTime: rec.PreparedTime,
			ExpiryTime:   rec.ExpiryTime,
			IsPerishable: rec.IsPerishable,
			SafetyScore:  rec.SafetyScore,
			SafetyNotes:  rec.SafetyNotes,
			ImageURL:     rec.ImageURL,
			Tags:         rec.Tags,
		}
	}
	return items, nil
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var (
		d      domain.Donation
		items  []byte
		status string
	)
	err := row.Scan(
		&d.ID, &d.DonorID, &d.DonorName, &d.RecipientID, &d.RecipientName,
		&d.RescuerID, &d.RescuerName, &d.Location.Lat, &d.Location.Lng, &d.Location.Address, &items,
		&status, &d.DistanceKm, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.Status = domain.DonationStatus(status)
	d.Items, err = decodeItems(items)
	if err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return &d, nil
}
