package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrganizationProfile is a restaurant or NGO verification record. A user
// has at most one profile per type.
type OrganizationProfile struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Type               OrganizationType
	Name               string
	RegistrationNumber string
	ContactPerson      string
	Phone              string
	Address            string
	MapsURL            *string
	IsVerified         bool
	VerifiedAt         *time.Time
	CreatedAt          time.Time
}
