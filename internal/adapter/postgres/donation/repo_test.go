//go:build integration

package donation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Saifff-551/foodhelp/internal/adapter/postgres/donation"
	"github.com/Saifff-551/foodhelp/internal/adapter/postgres/testhelper"
	"github.com/Saifff-551/foodhelp/internal/domain"
)

// newRepo is a test helper that sets up the DB and returns a ready Repo.
func newRepo(t *testing.T) (*donation.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return donation.New(pool), pool
}

func claimFor(actor uuid.UUID, name string) (domain.DonationGuard, domain.DonationPatch) {
	tr, _ := domain.TransitionFor(domain.ActionClaim)
	return tr.Guard(actor), tr.Patch(actor, name)
}

func TestRepo_InsertAndGet(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	donor := testhelper.SeedUser(t, pool, domain.UserRoleDonor)
	score := 92
	notes := "Keep hot"
	now := time.Now().UTC().Truncate(time.Microsecond)
	d := &domain.Donation{
		ID:        uuid.New(),
		DonorID:   donor.ID,
		DonorName: donor.Name,
		Location:  domain.Location{Lat: 12.97, Lng: 77.59, Address: "12 MG Road"},
		Items: []domain.FoodItem{{
			ID:           uuid.New(),
			Title:        "Wedding Buffet Surplus",
			Category:     domain.FoodCategoryCookedMeal,
			Quantity:     "50 meals",
			IsPerishable: true,
			SafetyScore:  &score,
			SafetyNotes:  &notes,
			Tags:         []string{"Vegetarian", "Hot"},
		}},
		Status:    domain.DonationStatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := repo.Insert(ctx, d); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.DonationStatusAvailable {
		t.Errorf("Status = %s, want AVAILABLE", got.Status)
	}
	if got.RecipientID != nil || got.RescuerID != nil {
		t.Error("new donation should have no recipient or rescuer")
	}
	if len(got.Items) != 1 || got.Items[0].Title != "Wedding Buffet Surplus" {
		t.Fatalf("Items = %+v", got.Items)
	}
	if got.Items[0].SafetyScore == nil || *got.Items[0].SafetyScore != 92 {
		t.Errorf("SafetyScore not round-tripped: %v", got.Items[0].SafetyScore)
	}
	if len(got.Items[0].Tags) != 2 {
		t.Errorf("Tags = %v, want 2", got.Items[0].Tags)
	}
}

func TestRepo_Insert_EmptyItemsRejected(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	donor := testhelper.SeedUser(t, pool, domain.UserRoleDonor)
	d := &domain.Donation{
		ID:        uuid.New(),
		DonorID:   donor.ID,
		DonorName: donor.Name,
		Items:     []domain.FoodItem{},
		Status:    domain.DonationStatusAvailable,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	_, err := repo.Insert(context.Background(), d)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_ConditionalUpdate_ClaimThenConflict(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	donor := testhelper.SeedUser(t, pool, domain.UserRoleDonor)
	r1 := testhelper.SeedUser(t, pool, domain.UserRoleRecipient)
	r2 := testhelper.SeedUser(t, pool, domain.UserRoleRecipient)
	d := testhelper.SeedDonation(t, pool, donor)

	guard, patch := claimFor(r1.ID, r1.Name)
	got, err := repo.ConditionalUpdate(ctx, d.ID, guard, patch)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if got.Status != domain.DonationStatusClaimed || !got.IsClaimedBy(r1.ID) {
		t.Fatalf("after claim: status=%s recipient=%v", got.Status, got.RecipientID)
	}

	guard, patch = claimFor(r2.ID, r2.Name)
	_, err = repo.ConditionalUpdate(ctx, d.ID, guard, patch)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second claim: expected ErrConflict, got %v", err)
	}

	after, err := repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !after.IsClaimedBy(r1.ID) {
		t.Fatal("losing claim overwrote the recipient")
	}
}

func TestRepo_ConditionalUpdate_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	guard, patch := claimFor(uuid.New(), "x")
	_, err := repo.ConditionalUpdate(context.Background(), uuid.New(), guard, patch)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_ConditionalUpdate_ConcurrentClaims(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	donor := testhelper.SeedUser(t, pool, domain.UserRoleDonor)
	d := testhelper.SeedDonation(t, pool, donor)

	const n = 8
	recipients := make([]domain.User, n)
	for i := range recipients {
		recipients[i] = testhelper.SeedUser(t, pool, domain.UserRoleRecipient)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   []uuid.UUID
		conflicts int
	)
	for _, r := range recipients {
		wg.Add(1)
		go func(r domain.User) {
			defer wg.Done()
			guard, patch := claimFor(r.ID, r.Name)
			_, err := repo.ConditionalUpdate(ctx, d.ID, guard, patch)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, r.ID)
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(r)
	}
	wg.Wait()

	if len(winners) != 1 {
		t.Fatalf("expected exactly one winner, got %d", len(winners))
	}
	if conflicts != n-1 {
		t.Fatalf("expected %d conflicts, got %d", n-1, conflicts)
	}

	after, err := repo.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !after.IsClaimedBy(winners[0]) {
		t.Fatal("stored recipient is not the winner")
	}
}

func TestRepo_DeleteIf(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	donor := testhelper.SeedUser(t, pool, domain.UserRoleDonor)
	recipient := testhelper.SeedUser(t, pool, domain.UserRoleRecipient)

	tr, _ := domain.TransitionFor(domain.ActionDelete)

	t.Run("claimed donation is kept", func(t *testing.T) {
		d := testhelper.SeedDonation(t, pool, donor)
		guard, patch := claimFor(recipient.ID, recipient.Name)
		if _, err := repo.ConditionalUpdate(ctx, d.ID, guard, patch); err != nil {
			t.Fatalf("claim: %v", err)
		}

		err := repo.DeleteIf(ctx, d.ID, tr.Guard(donor.ID))
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		if _, err := repo.GetByID(ctx, d.ID); err != nil {
			t.Fatalf("donation should still exist: %v", err)
		}
	})

	t.Run("available donation is removed", func(t *testing.T) {
		d := testhelper.SeedDonation(t, pool, donor)
		if err := repo.DeleteIf(ctx, d.ID, tr.Guard(donor.ID)); err != nil {
			t.Fatalf("DeleteIf: %v", err)
		}
		if _, err := repo.GetByID(ctx, d.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("missing donation", func(t *testing.T) {
		err := repo.DeleteIf(ctx, uuid.New(), tr.Guard(donor.ID))
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRepo_List_OrderedByCreatedAtDesc(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	donor := testhelper.SeedUser(t, pool, domain.UserRoleDonor)
	testhelper.SeedDonation(t, pool, donor)
	testhelper.SeedDonation(t, pool, donor)

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.After(list[i-1].CreatedAt) {
			t.Fatalf("list not ordered by created_at desc at %d", i)
		}
	}
}
