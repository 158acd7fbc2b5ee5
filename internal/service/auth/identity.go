package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

// ResolveIdentity turns an access token into the current user. The lookup
// is bounded by the configured resolve timeout; when it runs out the caller
// is treated as unauthenticated instead of waiting.
func (s *Service) ResolveIdentity(ctx context.Context, token string) (*domain.User, error) {
	userID, claimRole, err := s.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	timeout := s.cfg.IdentityResolveTimeout
	if timeout <= 0 {
		timeout = defaultIdentityResolveTimeout
	}
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	user, err := s.users.GetByID(rctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		return nil, domain.ErrUnauthorized
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(rctx.Err(), context.DeadlineExceeded):
		s.log.WarnContext(ctx, "identity resolution timed out, treating as unauthenticated",
			slog.String("user_id", userID.String()),
			slog.Duration("timeout", timeout))
		return nil, domain.ErrUnauthorized
	default:
		return nil, fmt.Errorf("auth.ResolveIdentity: %w", err)
	}

	role, ok := domain.ResolveRole(string(user.Role))
	if !ok {
		s.log.WarnContext(ctx, "stored role unrecognised, falling back to PENDING",
			slog.String("user_id", user.ID.String()),
			slog.String("role", string(user.Role)))
	}
	user.Role = role

	if claimRole != role.String() {
		s.log.DebugContext(ctx, "token role differs from stored role",
			slog.String("user_id", user.ID.String()),
			slog.String("token_role", claimRole),
			slog.String("stored_role", role.String()))
	}

	return user, nil
}
