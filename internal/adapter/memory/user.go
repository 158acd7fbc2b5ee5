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

// UserStore is an in-memory user repository.
type UserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

// NewUserStore creates an empty store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	c := *u
	return &c, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

// Create stores u. An empty role is stored as PENDING.
func (s *UserStore) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; ok {
		return nil, fmt.Errorf("user %s: %w", u.ID, domain.ErrAlreadyExists)
	}
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return nil, fmt.Errorf("user %s: %w", u.ID, domain.ErrAlreadyExists)
		}
	}

	c := *u
	if c.Role == "" {
		c.Role = domain.UserRolePending
	}
	s.users[c.ID] = &c
	out := c
	return &out, nil
}

func (s *UserStore) Update(ctx context.Context, id uuid.UUID, name *string, avatarURL *string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	if name != nil {
		u.Name = *name
	}
	if avatarURL != nil {
		v := *avatarURL
		u.AvatarURL = &v
	}
	u.UpdatedAt = time.Now().UTC()
	c := *u
	return &c, nil
}

func (s *UserStore) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*domain.User, error) {
	r := domain.UserRole(role)
	if !r.IsValid() {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	u.Role = r
	u.UpdatedAt = time.Now().UTC()
	c := *u
	return &c, nil
}

// AssignRoleIfPending sets role only while the stored role is PENDING.
func (s *UserStore) AssignRoleIfPending(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	if u.Role != domain.UserRolePending {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrConflict)
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	c := *u
	return &c, nil
}

func (s *UserStore) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	s.mu.RLock()
	all := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, *u)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []domain.User{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (s *UserStore) CountUsers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}
