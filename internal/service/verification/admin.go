package verification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Saifff-551/foodhelp/internal/domain"
	"github.com/Saifff-551/foodhelp/pkg/ctxutil"
)

// ListPending returns unverified profiles, oldest first. Admin only.
func (s *Service) ListPending(ctx context.Context) ([]domain.OrganizationProfile, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	profiles, err := s.orgs.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("verification.ListPending: %w", err)
	}
	return profiles, nil
}

// Verify marks a profile verified. Verification is one-way and repeating it
// is a no-op. Admin only.
func (s *Service) Verify(ctx context.Context, typ domain.OrganizationType, id uuid.UUID) (*domain.OrganizationProfile, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if !typ.IsValid() {
		return nil, domain.NewValidationError("type", "must be RESTAURANT or NGO")
	}

	profile, err := s.orgs.Verify(ctx, typ, id)
	if err != nil {
		return nil, fmt.Errorf("verification.Verify: %w", err)
	}
	s.changes.Add(1)

	adminID, _ := ctxutil.UserIDFromCtx(ctx)
	s.log.InfoContext(ctx, "organization verified",
		slog.String("organization_id", id.String()),
		slog.String("type", typ.String()),
		slog.String("admin_id", adminID.String()))

	if typ == domain.OrganizationTypeRestaurant {
		s.notifier.Notify(ctx)
	}
	return profile, nil
}

func requireAdmin(ctx context.Context) error {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return domain.ErrUnauthorized
	}
	if !ctxutil.IsAdminCtx(ctx) {
		return domain.ErrForbidden
	}
	return nil
}
