package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

// TokenStore is an in-memory refresh token repository.
type TokenStore struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]*domain.RefreshToken
}

// NewTokenStore creates an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[uuid.UUID]*domain.RefreshToken)}
}

func (s *TokenStore) Create(ctx context.Context, token *domain.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tokens {
		if t.TokenHash == token.TokenHash {
			return fmt.Errorf("refresh_token: %w", domain.ErrAlreadyExists)
		}
	}
	c := *token
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.tokens[c.ID] = &c
	return nil
}

// GetByHash returns an active token by hash.
func (s *TokenStore) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, t := range s.tokens {
		if t.TokenHash == tokenHash && !t.IsRevoked() && !t.IsExpired(now) {
			c := *t
			return &c, nil
		}
	}
	return nil, fmt.Errorf("refresh_token: %w", domain.ErrNotFound)
}

func (s *TokenStore) RevokeByID(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tokens[id]; ok && t.RevokedAt == nil {
		now := time.Now().UTC()
		t.RevokedAt = &now
	}
	return nil
}

func (s *TokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, t := range s.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (s *TokenStore) DeleteExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	n := 0
	for id, t := range s.tokens {
		if t.IsRevoked() || !t.ExpiresAt.After(now) {
			delete(s.tokens, id)
			n++
		}
	}
	return n, nil
}
