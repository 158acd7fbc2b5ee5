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

// AuthMethodStore is an in-memory auth method repository.
type AuthMethodStore struct {
	mu      sync.RWMutex
	methods []*domain.AuthMethod
}

// NewAuthMethodStore creates an empty store.
func NewAuthMethodStore() *AuthMethodStore {
	return &AuthMethodStore{}
}

func (s *AuthMethodStore) GetByOAuth(ctx context.Context, method domain.AuthMethodType, providerID string) (*domain.AuthMethod, error) {
	return s.find(func(am *domain.AuthMethod) bool {
		return am.Method == method && am.ProviderID != nil && *am.ProviderID == providerID
	})
}

func (s *AuthMethodStore) GetByUserAndMethod(ctx context.Context, userID uuid.UUID, method domain.AuthMethodType) (*domain.AuthMethod, error) {
	return s.find(func(am *domain.AuthMethod) bool {
		return am.UserID == userID && am.Method == method
	})
}

// Create stores am. One method of each type per user, one user per OAuth id.
func (s *AuthMethodStore) Create(ctx context.Context, am *domain.AuthMethod) (*domain.AuthMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.methods {
		sameUser := existing.UserID == am.UserID && existing.Method == am.Method
		sameOAuth := am.ProviderID != nil && existing.ProviderID != nil &&
			existing.Method == am.Method && *existing.ProviderID == *am.ProviderID
		if sameUser || sameOAuth {
			return nil, fmt.Errorf("auth_method: %w", domain.ErrAlreadyExists)
		}
	}

	c := *am
	now := time.Now().UTC()
	c.ID = uuid.New()
	c.CreatedAt, c.UpdatedAt = now, now
	s.methods = append(s.methods, &c)
	out := c
	return &out, nil
}

func (s *AuthMethodStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.AuthMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.AuthMethod
	for _, am := range s.methods {
		if am.UserID == userID {
			out = append(out, *am)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *AuthMethodStore) find(match func(*domain.AuthMethod) bool) (*domain.AuthMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, am := range s.methods {
		if match(am) {
			c := *am
			return &c, nil
		}
	}
	return nil, fmt.Errorf("auth_method: %w", domain.ErrNotFound)
}
