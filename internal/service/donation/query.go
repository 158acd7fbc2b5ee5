package donation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Saifff-551/foodhelp/internal/domain"
	"github.com/Saifff-551/foodhelp/pkg/ctxutil"
)

// Get returns a single donation.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Donation, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("donation.Get: %w", err)
	}
	return d, nil
}

// Snapshot returns every donation, newest first.
func (s *Service) Snapshot(ctx context.Context) ([]domain.Donation, error) {
	ds, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("donation.Snapshot: %w", err)
	}
	return ds, nil
}

// Impact sums the impact of delivered donations the caller took part in.
// Admins see the whole marketplace.
func (s *Service) Impact(ctx context.Context) (domain.ImpactMetrics, error) {
	u, err := s.actor(ctx)
	if err != nil {
		return domain.ImpactMetrics{}, fmt.Errorf("donation.Impact: %w", err)
	}

	ds, err := s.store.List(ctx)
	if err != nil {
		return domain.ImpactMetrics{}, fmt.Errorf("donation.Impact: %w", err)
	}

	return ImpactFor(ds, u.Role, u.ID), nil
}

// ImpactFor sums DonationImpact over the delivered donations in the
// viewer's scope.
func ImpactFor(ds []domain.Donation, role domain.UserRole, viewer uuid.UUID) domain.ImpactMetrics {
	var total domain.ImpactMetrics
	for i := range ds {
		d := &ds[i]
		if !d.Status.IsTerminal() || !involves(d, role, viewer) {
			continue
		}
		total.Add(domain.DonationImpact(d))
	}
	return total
}

func involves(d *domain.Donation, role domain.UserRole, viewer uuid.UUID) bool {
	switch role {
	case domain.UserRoleAdmin:
		return true
	case domain.UserRoleDonor:
		return d.IsOwnedBy(viewer)
	case domain.UserRoleRecipient:
		return d.IsClaimedBy(viewer)
	case domain.UserRoleRescuer:
		return d.IsRescuedBy(viewer)
	default:
		return false
	}
}
