// Package view shapes the donation snapshot for each role. Every function
// here is pure: the same snapshot and viewer always yield the same view.
package view

import (
	"github.com/google/uuid"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

// Section names.
const (
	SectionMyListings     = "my_listings"
	SectionAvailable      = "available"
	SectionMyClaims       = "my_claims"
	SectionOpenMissions   = "open_missions"
	SectionActiveMissions = "active_missions"
)

// Item is a donation annotated with what the viewer may do to it.
type Item struct {
	Donation      domain.Donation
	Actions       []domain.Action
	DonorVerified bool
}

// Section is a named, ordered subset of the snapshot.
type Section struct {
	Name  string
	Items []Item
}

// View is the role-shaped projection of one snapshot.
type View struct {
	Role            domain.UserRole
	NeedsOnboarding bool
	Sections        []Section
	Degraded        bool
}

// Capabilities is implemented once per role.
type Capabilities interface {
	Role() domain.UserRole
	// Build projects donations, assumed newest first, for viewer.
	Build(donations []domain.Donation, viewer uuid.UUID) View
	// CanPost reports whether the role may create donations.
	CanPost() bool
}

// For returns the capability set of role. Unknown roles are treated as
// PENDING.
func For(role domain.UserRole) Capabilities {
	switch role {
	case domain.UserRoleDonor:
		return donor{}
	case domain.UserRoleRecipient:
		return recipient{}
	case domain.UserRoleRescuer:
		return rescuer{}
	case domain.UserRoleAdmin:
		return admin{}
	default:
		return pending{}
	}
}

type donor struct{}

func (donor) Role() domain.UserRole { return domain.UserRoleDonor }
func (donor) CanPost() bool         { return true }

func (r donor) Build(ds []domain.Donation, viewer uuid.UUID) View {
	return View{
		Role: r.Role(),
		Sections: []Section{
			section(SectionMyListings, ds, r.Role(), viewer, func(d *domain.Donation) bool {
				return d.IsOwnedBy(viewer)
			}),
		},
	}
}

type recipient struct{}

func (recipient) Role() domain.UserRole { return domain.UserRoleRecipient }
func (recipient) CanPost() bool         { return false }

func (r recipient) Build(ds []domain.Donation, viewer uuid.UUID) View {
	return View{
		Role: r.Role(),
		Sections: []Section{
			section(SectionAvailable, ds, r.Role(), viewer, func(d *domain.Donation) bool {
				return d.Status == domain.DonationStatusAvailable
			}),
			section(SectionMyClaims, ds, r.Role(), viewer, func(d *domain.Donation) bool {
				return d.IsClaimedBy(viewer)
			}),
		},
	}
}

type rescuer struct{}

func (rescuer) Role() domain.UserRole { return domain.UserRoleRescuer }
func (rescuer) CanPost() bool         { return false }

func (r rescuer) Build(ds []domain.Donation, viewer uuid.UUID) View {
	return View{
		Role: r.Role(),
		Sections: []Section{
			section(SectionOpenMissions, ds, r.Role(), viewer, func(d *domain.Donation) bool {
				return d.Status == domain.DonationStatusClaimed && !d.HasRescuer()
			}),
			section(SectionActiveMissions, ds, r.Role(), viewer, func(d *domain.Donation) bool {
				return d.IsRescuedBy(viewer) &&
					(d.Status == domain.DonationStatusClaimed || d.Status == domain.DonationStatusPickedUp)
			}),
		},
	}
}

// admin works on the verification registry, not on donations.
type admin struct{}

func (admin) Role() domain.UserRole { return domain.UserRoleAdmin }
func (admin) CanPost() bool         { return false }

func (a admin) Build([]domain.Donation, uuid.UUID) View {
	return View{Role: a.Role(), Sections: []Section{}}
}

type pending struct{}

func (pending) Role() domain.UserRole { return domain.UserRolePending }
func (pending) CanPost() bool         { return false }

func (p pending) Build([]domain.Donation, uuid.UUID) View {
	return View{Role: p.Role(), NeedsOnboarding: true, Sections: []Section{}}
}

func section(name string, ds []domain.Donation, role domain.UserRole, viewer uuid.UUID, keep func(*domain.Donation) bool) Section {
	s := Section{Name: name, Items: []Item{}}
	for i := range ds {
		d := &ds[i]
		if !keep(d) {
			continue
		}
		actions := domain.AllowedActions(d, role, viewer)
		if actions == nil {
			actions = []domain.Action{}
		}
		s.Items = append(s.Items, Item{Donation: d.Clone(), Actions: actions})
	}
	return s
}

// DonorIDs returns the distinct donors appearing in v, in first-seen order.
func (v View) DonorIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	for _, s := range v.Sections {
		for _, it := range s.Items {
			if _, ok := seen[it.Donation.DonorID]; ok {
				continue
			}
			seen[it.Donation.DonorID] = struct{}{}
			out = append(out, it.Donation.DonorID)
		}
	}
	return out
}

// MarkVerified sets DonorVerified on items whose donor is in verified.
func (v View) MarkVerified(verified map[uuid.UUID]bool) {
	for si := range v.Sections {
		items := v.Sections[si].Items
		for i := range items {
			items[i].DonorVerified = verified[items[i].Donation.DonorID]
		}
	}
}

// Len returns the number of items across all sections.
func (v View) Len() int {
	n := 0
	for _, s := range v.Sections {
		n += len(s.Items)
	}
	return n
}
