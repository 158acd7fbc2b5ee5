package view

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

// BadgeSource answers "is this donor a verified restaurant" for a batch of
// donors.
type BadgeSource interface {
	Verified(ctx context.Context, donorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

// Render builds the view of donations for user and attaches donor badges.
// A badge lookup failure still returns the view, without badges, together
// with the error.
func Render(ctx context.Context, user *domain.User, donations []domain.Donation, degraded bool, badges BadgeSource) (View, error) {
	v := For(user.Role).Build(donations, user.ID)
	v.NeedsOnboarding = user.NeedsOnboarding()
	v.Degraded = degraded

	if badges == nil || v.Len() == 0 {
		return v, nil
	}

	verified, err := badges.Verified(ctx, v.DonorIDs())
	if err != nil {
		return v, fmt.Errorf("view.Render: %w", err)
	}
	v.MarkVerified(verified)
	return v, nil
}
