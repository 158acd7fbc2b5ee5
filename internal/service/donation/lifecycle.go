package donation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

// Claim reserves an AVAILABLE donation for the calling recipient. Of any
// number of concurrent claims exactly one succeeds; the others receive
// ErrAlreadyClaimed.
func (s *Service) Claim(ctx context.Context, id uuid.UUID) (*domain.Donation, error) {
	d, err := s.apply(ctx, id, domain.ActionClaim)
	if err != nil {
		return nil, fmt.Errorf("donation.Claim: %w", err)
	}
	return d, nil
}

// AcceptMission binds the calling rescuer to a CLAIMED donation with no
// rescuer. Status stays CLAIMED.
func (s *Service) AcceptMission(ctx context.Context, id uuid.UUID) (*domain.Donation, error) {
	d, err := s.apply(ctx, id, domain.ActionAcceptMission)
	if err != nil {
		return nil, fmt.Errorf("donation.AcceptMission: %w", err)
	}
	return d, nil
}

// ConfirmPickup moves CLAIMED to PICKED_UP. Only the bound rescuer may do so.
func (s *Service) ConfirmPickup(ctx context.Context, id uuid.UUID) (*domain.Donation, error) {
	d, err := s.apply(ctx, id, domain.ActionConfirmPickup)
	if err != nil {
		return nil, fmt.Errorf("donation.ConfirmPickup: %w", err)
	}
	return d, nil
}

// ConfirmDelivery moves PICKED_UP to DELIVERED. Only the bound rescuer may
// do so.
func (s *Service) ConfirmDelivery(ctx context.Context, id uuid.UUID) (*domain.Donation, error) {
	d, err := s.apply(ctx, id, domain.ActionConfirmDelivery)
	if err != nil {
		return nil, fmt.Errorf("donation.ConfirmDelivery: %w", err)
	}
	return d, nil
}

// Delete removes an AVAILABLE donation owned by the calling donor.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func() { s.record(domain.ActionDelete, err) }()

	u, d, err := s.prepare(ctx, id, domain.ActionDelete)
	if err != nil {
		return fmt.Errorf("donation.Delete: %w", err)
	}

	tr, _ := domain.TransitionFor(domain.ActionDelete)
	err = s.store.DeleteIf(ctx, d.ID, tr.Guard(u.ID))
	if errors.Is(err, domain.ErrConflict) {
		err = s.explainConflict(ctx, id, domain.ActionDelete, u)
	}
	if err != nil {
		return fmt.Errorf("donation.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "donation deleted",
		slog.String("donation_id", id.String()),
		slog.String("donor_id", u.ID.String()))

	s.notifier.Notify(ctx)
	return nil
}

// apply runs one guarded transition: authorize against the current state,
// then write conditionally on that state still holding.
func (s *Service) apply(ctx context.Context, id uuid.UUID, action domain.Action) (out *domain.Donation, err error) {
	defer func() { s.record(action, err) }()

	u, d, err := s.prepare(ctx, id, action)
	if err != nil {
		return nil, err
	}

	if action == domain.ActionClaim {
		if err := s.requireVerifiedOrg(ctx, u, domain.OrganizationTypeNGO); err != nil {
			return nil, err
		}
	}

	tr, _ := domain.TransitionFor(action)
	updated, err := s.store.ConditionalUpdate(ctx, d.ID, tr.Guard(u.ID), tr.Patch(u.ID, u.DisplayName()))
	if errors.Is(err, domain.ErrConflict) {
		return nil, s.explainConflict(ctx, id, action, u)
	}
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "donation transition",
		slog.String("donation_id", id.String()),
		slog.String("action", action.String()),
		slog.String("actor_id", u.ID.String()),
		slog.String("status", updated.Status.String()))

	s.notifier.Notify(ctx)
	return updated, nil
}

func (s *Service) prepare(ctx context.Context, id uuid.UUID, action domain.Action) (*domain.User, *domain.Donation, error) {
	u, err := s.actor(ctx)
	if err != nil {
		return nil, nil, err
	}

	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := domain.Permits(d, action, u.Role, u.ID); err != nil {
		return nil, nil, err
	}
	return u, d, nil
}

// explainConflict turns a failed guard into the error the caller should
// see, judged against the state that won.
func (s *Service) explainConflict(ctx context.Context, id uuid.UUID, action domain.Action, u *domain.User) error {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := domain.Permits(current, action, u.Role, u.ID); err != nil {
		s.log.InfoContext(ctx, "transition lost race",
			slog.String("donation_id", id.String()),
			slog.String("action", action.String()),
			slog.String("status", current.Status.String()),
			slog.String("error", err.Error()))
		return err
	}

	switch action {
	case domain.ActionClaim, domain.ActionAcceptMission:
		return domain.ErrAlreadyClaimed
	default:
		return domain.ErrInvalidTransition
	}
}
