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

// OrganizationStore is an in-memory organization profile repository.
type OrganizationStore struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*domain.OrganizationProfile
}

// NewOrganizationStore creates an empty store.
func NewOrganizationStore() *OrganizationStore {
	return &OrganizationStore{profiles: make(map[uuid.UUID]*domain.OrganizationProfile)}
}

// Create stores p. One profile per user per type.
func (s *OrganizationStore) Create(ctx context.Context, p *domain.OrganizationProfile) (*domain.OrganizationProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.profiles {
		if existing.UserID == p.UserID && existing.Type == p.Type {
			return nil, fmt.Errorf("organization %s: %w", p.ID, domain.ErrAlreadyExists)
		}
	}
	c := *p
	c.IsVerified = false
	c.VerifiedAt = nil
	s.profiles[c.ID] = &c
	out := c
	return &out, nil
}

func (s *OrganizationStore) GetByID(ctx context.Context, typ domain.OrganizationType, id uuid.UUID) (*domain.OrganizationProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok || p.Type != typ {
		return nil, fmt.Errorf("organization %s: %w", id, domain.ErrNotFound)
	}
	c := *p
	return &c, nil
}

func (s *OrganizationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.OrganizationProfile, error) {
	return s.filter(func(p *domain.OrganizationProfile) bool { return p.UserID == userID }), nil
}

func (s *OrganizationStore) ListPending(ctx context.Context) ([]domain.OrganizationProfile, error) {
	return s.filter(func(p *domain.OrganizationProfile) bool { return !p.IsVerified }), nil
}

// Verify marks the profile verified, keeping the first verified_at.
func (s *OrganizationStore) Verify(ctx context.Context, typ domain.OrganizationType, id uuid.UUID) (*domain.OrganizationProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok || p.Type != typ {
		return nil, fmt.Errorf("organization %s: %w", id, domain.ErrNotFound)
	}
	if !p.IsVerified {
		now := time.Now().UTC()
		p.IsVerified = true
		p.VerifiedAt = &now
	}
	c := *p
	return &c, nil
}

func (s *OrganizationStore) IsVerified(ctx context.Context, userID uuid.UUID, typ domain.OrganizationType) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		if p.UserID == userID && p.Type == typ && p.IsVerified {
			return true, nil
		}
	}
	return false, nil
}

func (s *OrganizationStore) ListVerifiedUserIDs(ctx context.Context, typ domain.OrganizationType, userIDs []uuid.UUID) ([]uuid.UUID, error) {
	want := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, id := range userIDs {
		want[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	for _, p := range s.profiles {
		if _, ok := want[p.UserID]; !ok || p.Type != typ || !p.IsVerified {
			continue
		}
		if _, dup := seen[p.UserID]; dup {
			continue
		}
		seen[p.UserID] = struct{}{}
		out = append(out, p.UserID)
	}
	return out, nil
}

func (s *OrganizationStore) filter(keep func(*domain.OrganizationProfile) bool) []domain.OrganizationProfile {
	s.mu.RLock()
	out := []domain.OrganizationProfile{}
	for _, p := range s.profiles {
		if keep(p) {
			out = append(out, *p)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
