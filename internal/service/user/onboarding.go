package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Saifff-551/foodhelp/internal/domain"
	"github.com/Saifff-551/foodhelp/pkg/ctxutil"
)

// SelectRole is the one-shot onboarding step: a PENDING user picks DONOR,
// RECIPIENT or RESCUER. The write is conditional on the stored role still
// being PENDING, so a second attempt returns ErrRoleAlreadyAssigned and
// leaves the first choice in place.
func (s *Service) SelectRole(ctx context.Context, role domain.UserRole) (*domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if !role.IsSelectable() {
		return nil, domain.NewValidationError("role", "must be DONOR, RECIPIENT or RESCUER")
	}

	user, err := s.users.AssignRoleIfPending(ctx, userID, role)
	if errors.Is(err, domain.ErrConflict) {
		s.log.WarnContext(ctx, "role already assigned",
			slog.String("user_id", userID.String()),
			slog.String("requested_role", role.String()))
		return nil, fmt.Errorf("user.SelectRole: %w", domain.ErrRoleAlreadyAssigned)
	}
	if err != nil {
		return nil, fmt.Errorf("user.SelectRole: %w", err)
	}

	s.log.InfoContext(ctx, "role selected",
		slog.String("user_id", userID.String()),
		slog.String("role", role.String()))

	return user, nil
}
