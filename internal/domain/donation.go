package domain

import (
	"time"

	"github.com/google/uuid"
)

// Location is a coordinate pair plus a human-readable address.
type Location struct {
	Lat     float64
	Lng     float64
	Address string
}

// FoodItem is embedded in a donation and is not addressable on its own.
type FoodItem struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Category     FoodCategory
	Quantity     string
	PreparedTime string
	ExpiryTime   string
	IsPerishable bool
	SafetyScore  *int
	SafetyNotes  *string
	ImageURL     *string
	Tags         []string
}

// Donation is a postable unit of surplus food moving through the lifecycle.
type Donation struct {
	ID            uuid.UUID
	DonorID       uuid.UUID
	DonorName     string
	RecipientID   *uuid.UUID
	RecipientName *string
	RescuerID     *uuid.UUID
	RescuerName   *string
	Location      Location
	Items         []FoodItem
	Status        DonationStatus
	DistanceKm    *float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsOwnedBy reports whether userID posted the donation.
func (d *Donation) IsOwnedBy(userID uuid.UUID) bool {
	return d.DonorID == userID
}

// IsClaimedBy reports whether userID is the bound recipient.
func (d *Donation) IsClaimedBy(userID uuid.UUID) bool {
	return d.RecipientID != nil && *d.RecipientID == userID
}

// IsRescuedBy reports whether userID is the bound rescuer.
func (d *Donation) IsRescuedBy(userID uuid.UUID) bool {
	return d.RescuerID != nil && *d.RescuerID == userID
}

// HasRescuer reports whether a rescuer has accepted the mission.
func (d *Donation) HasRescuer() bool {
	return d.RescuerID != nil
}

// Clone returns a deep copy so stores can hand out snapshots safely.
func (d *Donation) Clone() Donation {
	c := *d
	if d.RecipientID != nil {
		v := *d.RecipientID
		c.RecipientID = &v
	}
	if d.RecipientName != nil {
		v := *d.RecipientName
		c.RecipientName = &v
	}
	if d.RescuerID != nil {
		v := *d.RescuerID
		c.RescuerID = &v
	}
	if d.RescuerName != nil {
		v := *d.RescuerName
		c.RescuerName = &v
	}
	if d.DistanceKm != nil {
		v := *d.DistanceKm
		c.DistanceKm = &v
	}
	c.Items = make([]FoodItem, len(d.Items))
	for i, it := range d.Items {
		c.Items[i] = it
		c.Items[i].Tags = append([]string(nil), it.Tags...)
		if it.SafetyScore != nil {
			v := *it.SafetyScore
			c.Items[i].SafetyScore = &v
		}
		if it.SafetyNotes != nil {
			v := *it.SafetyNotes
			c.Items[i].SafetyNotes = &v
		}
		if it.ImageURL != nil {
			v := *it.ImageURL
			c.Items[i].ImageURL = &v
		}
	}
	return c
}

// DonationGuard is the precondition of a conditional write. Zero fields are
// not checked.
type DonationGuard struct {
	Status       DonationStatus
	RescuerUnset bool
	RescuerID    *uuid.UUID
	DonorID      *uuid.UUID
}

// Holds reports whether d satisfies the guard.
func (g DonationGuard) Holds(d *Donation) bool {
	if g.Status != "" && d.Status != g.Status {
		return false
	}
	if g.RescuerUnset && d.RescuerID != nil {
		return false
	}
	if g.RescuerID != nil && !d.IsRescuedBy(*g.RescuerID) {
		return false
	}
	if g.DonorID != nil && d.DonorID != *g.DonorID {
		return false
	}
	return true
}

// DonationPatch is a partial update. Nil fields are left unchanged.
type DonationPatch struct {
	Status        *DonationStatus
	RecipientID   *uuid.UUID
	RecipientName *string
	RescuerID     *uuid.UUID
	RescuerName   *string
}

// Apply writes the patch into d and stamps UpdatedAt.
func (p DonationPatch) Apply(d *Donation, now time.Time) {
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.RecipientID != nil {
		v := *p.RecipientID
		d.RecipientID = &v
	}
	if p.RecipientName != nil {
		v := *p.RecipientName
		d.RecipientName = &v
	}
	if p.RescuerID != nil {
		v := *p.RescuerID
		d.RescuerID = &v
	}
	if p.RescuerName != nil {
		v := *p.RescuerName
		d.RescuerName = &v
	}
	d.UpdatedAt = now
}

// SafetyAssessment is the safety oracle's verdict on one food item.
type SafetyAssessment struct {
	Score                int
	Reasoning            string
	HandlingInstructions string
	// Degraded is set when Score is the configured default rather than an
	// oracle verdict.
	Degraded bool
}
