package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user with the given role.
// Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role domain.UserRole) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:        uuid.New(),
		Email:     "testuser-" + suffix + "@example.com",
		Name:      "Test User " + suffix,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, name, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.Name, string(user.Role), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// SeedDonation inserts an AVAILABLE donation with a single item for donor.
func SeedDonation(t *testing.T, pool *pgxpool.Pool, donor domain.User) domain.Donation {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	d := domain.Donation{
		ID:        uuid.New(),
		DonorID:   donor.ID,
		DonorName: donor.Name,
		Location:  domain.Location{Lat: 12.9716, Lng: 77.5946, Address: "12 MG Road, Bangalore"},
		Items: []domain.FoodItem{{
			ID:       uuid.New(),
			Title:    "Rice Surplus",
			Category: domain.FoodCategoryCookedMeal,
			Quantity: "5kg",
			Tags:     []string{},
		}},
		Status:    domain.DonationStatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}

	items, err := json.Marshal([]map[string]any{{
		"id":       d.Items[0].ID,
		"title":    d.Items[0].Title,
		"category": d.Items[0].Category,
		"quantity": d.Items[0].Quantity,
		"tags":     d.Items[0].Tags,
	}})
	if err != nil {
		t.Fatalf("testhelper: SeedDonation marshal items: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO donations (id, donor_id, donor_name, lat, lng, address, items, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.DonorID, d.DonorName, d.Location.Lat, d.Location.Lng, d.Location.Address,
		items, string(d.Status), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDonation insert: %v", err)
	}

	return d
}
