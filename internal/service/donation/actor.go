package donation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Saifff-551/foodhelp/internal/domain"
	"github.com/Saifff-551/foodhelp/pkg/ctxutil"
)

// actor loads the calling user. The stored role is authoritative: a token
// minted before onboarding still carries PENDING. An unknown stored role is
// treated as PENDING.
func (s *Service) actor(ctx context.Context) (*domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("load actor: %w", err)
	}

	role, known := domain.ResolveRole(string(u.Role))
	if !known {
		s.log.WarnContext(ctx, "unknown stored role, treating as pending",
			slog.String("user_id", u.ID.String()),
			slog.String("role", string(u.Role)))
	}
	if role != u.Role {
		resolved := *u
		resolved.Role = role
		u = &resolved
	}
	return u, nil
}

// requireVerifiedOrg enforces the optional verified-organization gate.
func (s *Service) requireVerifiedOrg(ctx context.Context, u *domain.User, typ domain.OrganizationType) error {
	if !s.requireVerified {
		return nil
	}

	ok, err := s.orgs.IsVerified(ctx, u.ID, typ)
	if err != nil {
		return fmt.Errorf("check verification: %w", err)
	}
	if !ok {
		return domain.ErrNotVerified
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAlreadyClaimed):
		return "already_claimed"
	case errors.Is(err, domain.ErrNotAuthorized), errors.Is(err, domain.ErrForbidden):
		return "not_authorized"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid_input"
	case errors.Is(err, domain.ErrNotVerified):
		return "not_verified"
	default:
		return "error"
	}
}
