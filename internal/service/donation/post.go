package donation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

// Post creates an AVAILABLE donation owned by the calling donor. Each item
// is scored by the safety oracle; an unavailable oracle yields the default
// score and never blocks posting.
func (s *Service) Post(ctx context.Context, input PostInput) (d *domain.Donation, err error) {
	defer func() { s.record(domain.ActionPost, err) }()

	u, err := s.actor(ctx)
	if err != nil {
		return nil, fmt.Errorf("donation.Post: %w", err)
	}
	if u.Role != domain.UserRoleDonor {
		return nil, fmt.Errorf("donation.Post: %w", domain.ErrNotAuthorized)
	}

	if err := input.Validate(s.maxItems); err != nil {
		return nil, fmt.Errorf("donation.Post: %w", err)
	}

	if err := s.requireVerifiedOrg(ctx, u, domain.OrganizationTypeRestaurant); err != nil {
		return nil, fmt.Errorf("donation.Post: %w", err)
	}

	items := s.scoreItems(ctx, input.Items)

	now := s.now()
	donation := &domain.Donation{
		ID:        uuid.New(),
		DonorID:   u.ID,
		DonorName: u.DisplayName(),
		Location:  input.Location,
		Items:     items,
		Status:    domain.DonationStatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.store.Insert(ctx, donation)
	if err != nil {
		return nil, fmt.Errorf("donation.Post: %w", err)
	}

	s.log.InfoContext(ctx, "donation posted",
		slog.String("donation_id", created.ID.String()),
		slog.String("donor_id", u.ID.String()),
		slog.Int("items", len(created.Items)))

	s.notifier.Notify(ctx)
	return created, nil
}

// scoreItems assesses items concurrently, bounded by scoringConcurrency.
// The oracle never returns an error, so the group only bounds parallelism.
func (s *Service) scoreItems(ctx context.Context, inputs []ItemInput) []domain.FoodItem {
	items := make([]domain.FoodItem, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.scoringConcurrency)
	for i, in := range inputs {
		g.Go(func() error {
			a := s.oracle.Assess(gctx, in.description(), in.PreparedTime)
			s.recordSafety(a.Degraded)

			score := a.Score
			var notes *string
			if a.HandlingInstructions != "" {
				v := a.HandlingInstructions
				notes = &v
			}

			tags := in.Tags
			if tags == nil {
				tags = []string{}
			}
			items[i] = domain.FoodItem{
				ID:           uuid.New(),
				Title:        in.Title,
				Description:  in.Description,
				Category:     in.Category,
				Quantity:     in.Quantity,
				PreparedTime: in.PreparedTime,
				ExpiryTime:   in.ExpiryTime,
				IsPerishable: in.IsPerishable,
				SafetyScore:  &score,
				SafetyNotes:  notes,
				ImageURL:     in.ImageURL,
				Tags:         tags,
			}
			return nil
		})
	}
	_ = g.Wait()

	return items
}
