package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated application user.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	AvatarURL *string
	Role      UserRole
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the name shown to other actors, falling back to the
// email when no name is set.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// NeedsOnboarding reports whether the user still has to pick a role.
func (u *User) NeedsOnboarding() bool {
	return u.Role == UserRolePending
}

// RefreshToken represents a hashed refresh token stored in the database.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IsRevoked returns true if the token has been revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired returns true if the token has expired relative to now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
