// Package memory provides in-process stores used when no database is
// configured. They honour the same contracts as the postgres repositories,
// including conditional writes.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

// DonationStore keeps donations in a map guarded by a mutex.
type DonationStore struct {
	mu        sync.RWMutex
	donations map[uuid.UUID]*domain.Donation
	now       func() time.Time
}

// NewDonationStore creates an empty store.
func NewDonationStore() *DonationStore {
	return &DonationStore{
		donations: make(map[uuid.UUID]*domain.Donation),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns a copy of every donation, newest first.
func (s *DonationStore) List(ctx context.Context) ([]domain.Donation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]domain.Donation, 0, len(s.donations))
	for _, d := range s.donations {
		out = append(out, d.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// GetByID returns a copy of the donation.
func (s *DonationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Donation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.donations[id]
	if !ok {
		return nil, fmt.Errorf("donation %s: %w", id, domain.ErrNotFound)
	}
	c := d.Clone()
	return &c, nil
}

// Insert stores d. Duplicate ids and empty item lists are rejected.
func (s *DonationStore) Insert(ctx context.Context, d *domain.Donation) (*domain.Donation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(d.Items) == 0 {
		return nil, fmt.Errorf("donation %s: %w", d.ID, domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.donations[d.ID]; ok {
		return nil, fmt.Errorf("donation %s: %w", d.ID, domain.ErrAlreadyExists)
	}
	c := d.Clone()
	s.donations[d.ID] = &c
	out := c.Clone()
	return &out, nil
}

// ConditionalUpdate applies patch only while guard holds. The check and the
// write happen under one lock.
func (s *DonationStore) ConditionalUpdate(ctx context.Context, id uuid.UUID, guard domain.DonationGuard, patch domain.DonationPatch) (*domain.Donation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.donations[id]
	if !ok {
		return nil, fmt.Errorf("donation %s: %w", id, domain.ErrNotFound)
	}
	if !guard.Holds(d) {
		return nil, fmt.Errorf("donation %s: %w", id, domain.ErrConflict)
	}
	patch.Apply(d, s.now())
	out := d.Clone()
	return &out, nil
}

// DeleteIf removes the donation only while guard holds.
func (s *DonationStore) DeleteIf(ctx context.Context, id uuid.UUID, guard domain.DonationGuard) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.donations[id]
	if !ok {
		return fmt.Errorf("donation %s: %w", id, domain.ErrNotFound)
	}
	if !guard.Holds(d) {
		return fmt.Errorf("donation %s: %w", id, domain.ErrConflict)
	}
	delete(s.donations, id)
	return nil
}
