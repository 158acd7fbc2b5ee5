// Package demo seeds a small marketplace so a fresh instance has something
// to look at: three donors, a shelter, a rescuer and their donations.
package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
}

type donationStore interface {
	List(ctx context.Context) ([]domain.Donation, error)
	Insert(ctx context.Context, d *domain.Donation) (*domain.Donation, error)
}

// Result reports what Seed wrote.
type Result struct {
	UsersCreated     int
	DonationsCreated int
}

type account struct {
	email string
	name  string
	role  domain.UserRole
}

var accounts = []account{
	{"saffron@demo.foodhelp.app", "Saffron Banquet Hall", domain.UserRoleDonor},
	{"bakery@demo.foodhelp.app", "Daily Bread Bakery", domain.UserRoleDonor},
	{"freshmart@demo.foodhelp.app", "Fresh Mart Supermarket", domain.UserRoleDonor},
	{"hope@demo.foodhelp.app", "Hope Shelter", domain.UserRoleRecipient},
	{"rescuer@demo.foodhelp.app", "Arjun (Volunteer)", domain.UserRoleRescuer},
}

// Seed creates the demo accounts that do not exist yet and, when the
// donation store is empty, the demo donations. Running it twice is safe.
func Seed(ctx context.Context, users userStore, donations donationStore, now time.Time, logger *slog.Logger) (Result, error) {
	var res Result
	byName := make(map[string]*domain.User, len(accounts))

	for _, a := range accounts {
		u, err := users.GetByEmail(ctx, a.email)
		if errors.Is(err, domain.ErrNotFound) {
			u, err = users.Create(ctx, &domain.User{
				ID:        uuid.New(),
				Email:     a.email,
				Name:      a.name,
				Role:      a.role,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err == nil {
				res.UsersCreated++
			}
		}
		if err != nil {
			return res, fmt.Errorf("demo user %s: %w", a.email, err)
		}
		byName[a.name] = u
	}

	existing, err := donations.List(ctx)
	if err != nil {
		return res, fmt.Errorf("demo list donations: %w", err)
	}
	if len(existing) > 0 {
		logger.InfoContext(ctx, "donations present, skipping demo donations", slog.Int("count", len(existing)))
		return res, nil
	}

	for _, d := range catalog(byName, now) {
		if _, err := donations.Insert(ctx, &d); err != nil {
			return res, fmt.Errorf("demo donation %s: %w", d.Items[0].Title, err)
		}
		res.DonationsCreated++
	}

	logger.InfoContext(ctx, "demo data seeded",
		slog.Int("users", res.UsersCreated),
		slog.Int("donations", res.DonationsCreated))
	return res, nil
}

func catalog(u map[string]*domain.User, now time.Time) []domain.Donation {
	saffron := u["Saffron Banquet Hall"]
	bakery := u["Daily Bread Bakery"]
	freshmart := u["Fresh Mart Supermarket"]
	hope := u["Hope Shelter"]

	return []domain.Donation{
		donation(saffron, nil, domain.DonationStatusAvailable, now.Add(-30*time.Minute), 1.2,
			domain.Location{Lat: 12.9716, Lng: 77.5946, Address: "12 MG Road, Bangalore"},
			domain.FoodItem{
				Title:        "Wedding Buffet Surplus",
				Description:  "Rice, Dal, and Paneer Curry. Kept in warmers since service ended.",
				Category:     domain.FoodCategoryCookedMeal,
				Quantity:     "50 meals",
				PreparedTime: "3 hours ago",
				ExpiryTime:   "4 hours",
				IsPerishable: true,
				SafetyScore:  intPtr(92),
				Tags:         []string{"Vegetarian", "Bulk", "Hot"},
				ImageURL:     strPtr("https://picsum.photos/400/300?random=1"),
			}),
		donation(bakery, nil, domain.DonationStatusAvailable, now.Add(-2*time.Hour), 3.5,
			domain.Location{Lat: 12.9279, Lng: 77.6271, Address: "Koramangala 4th Block"},
			domain.FoodItem{
				Title:        "Assorted Pastries & Breads",
				Description:  "Day-old breads and unsold croissants from morning batch.",
				Category:     domain.FoodCategoryBakery,
				Quantity:     "15kg",
				PreparedTime: "10 hours ago",
				ExpiryTime:   "24 hours",
				SafetyScore:  intPtr(98),
				Tags:         []string{"Bakery", "Breakfast", "Snack"},
				ImageURL:     strPtr("https://picsum.photos/400/300?random=2"),
			}),
		donation(freshmart, hope, domain.DonationStatusClaimed, now.Add(-4*time.Hour), 0.8,
			domain.Location{Lat: 12.9141, Lng: 77.6100, Address: "EcoWorld Campus"},
			domain.FoodItem{
				Title:        "Fresh Vegetables Batch",
				Description:  "Tomatoes and spinach slightly wilted but edible. Good for stew.",
				Category:     domain.FoodCategoryRawIngredients,
				Quantity:     "10kg",
				PreparedTime: "N/A",
				ExpiryTime:   "2 days",
				IsPerishable: true,
				SafetyScore:  intPtr(89),
				Tags:         []string{"Vegetables", "Raw"},
				ImageURL:     strPtr("https://picsum.photos/400/300?random=3"),
			}),
	}
}

func donation(donor, recipient *domain.User, status domain.DonationStatus, at time.Time, km float64, loc domain.Location, item domain.FoodItem) domain.Donation {
	item.ID = uuid.New()
	d := domain.Donation{
		ID:         uuid.New(),
		DonorID:    donor.ID,
		DonorName:  donor.DisplayName(),
		Location:   loc,
		Items:      []domain.FoodItem{item},
		Status:     status,
		DistanceKm: &km,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	if recipient != nil {
		id, name := recipient.ID, recipient.DisplayName()
		d.RecipientID = &id
		d.RecipientName = &name
	}
	return d
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
