// Package dto holds the JSON shapes shared by the REST and websocket
// transports.
package dto

import (
	"time"

	"github.com/Saifff-551/foodhelp/internal/domain"
	"github.com/Saifff-551/foodhelp/internal/service/view"
)

type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type FoodItem struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Quantity     string   `json:"quantity"`
	PreparedTime string   `json:"preparedTime"`
	ExpiryTime   string   `json:"expiryTime"`
	IsPerishable bool     `json:"isPerishable"`
	SafetyScore  *int     `json:"safetyScore,omitempty"`
	SafetyNotes  *string  `json:"safetyNotes,omitempty"`
	ImageURL     *string  `json:"imageUrl,omitempty"`
	Tags         []string `json:"tags"`
}

type Donation struct {
	ID            string     `json:"id"`
	DonorID       string     `json:"donorId"`
	DonorName     string     `json:"donorName"`
	RecipientID   *string    `json:"recipientId,omitempty"`
	RecipientName *string    `json:"recipientName,omitempty"`
	RescuerID     *string    `json:"rescuerId,omitempty"`
	RescuerName   *string    `json:"rescuerName,omitempty"`
	Location      Location   `json:"location"`
	Items         []FoodItem `json:"items"`
	Status        string     `json:"status"`
	DistanceKm    *float64   `json:"distanceKm,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ViewItem is a donation plus what the viewer may do with it.
type ViewItem struct {
	Donation
	Actions       []string `json:"actions"`
	DonorVerified bool     `json:"donorVerified"`
}

type Section struct {
	Name  string     `json:"name"`
	Items []ViewItem `json:"items"`
}

type View struct {
	Role            string    `json:"role"`
	NeedsOnboarding bool      `json:"needsOnboarding"`
	CanPost         bool      `json:"canPost"`
	Degraded        bool      `json:"degraded"`
	Sections        []Section `json:"sections"`
}

type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	AvatarURL       *string   `json:"avatarUrl,omitempty"`
	Role            string    `json:"role"`
	NeedsOnboarding bool      `json:"needsOnboarding"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Organization struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"userId"`
	Type               string     `json:"type"`
	Name               string     `json:"name"`
	RegistrationNumber string     `json:"registrationNumber"`
	ContactPerson      string     `json:"contactPerson"`
	Phone              string     `json:"phone"`
	Address            string     `json:"address"`
	MapsURL            *string    `json:"mapsUrl,omitempty"`
	IsVerified         bool       `json:"isVerified"`
	VerifiedAt         *time.Time `json:"verifiedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

type Impact struct {
	MealsSaved     int     `json:"mealsSaved"`
	FoodRescuedKg  float64 `json:"foodRescuedKg"`
	CO2PreventedKg float64 `json:"co2PreventedKg"`
	Deliveries     int     `json:"deliveries"`
}

// FeedMessage is one frame on the live feed socket.
type FeedMessage struct {
	Type    string    `json:"type"`
	Version uint64    `json:"version"`
	At      time.Time `json:"at"`
	View    View      `json:"view"`
}

func FromDonation(d *domain.Donation) Donation {
	out := Donation{
		ID:            d.ID.String(),
		DonorID:       d.DonorID.String(),
		DonorName:     d.DonorName,
		RecipientName: d.RecipientName,
		RescuerName:   d.RescuerName,
		Location: Location{
			Lat:     d.Location.Lat,
			Lng:     d.Location.Lng,
			Address: d.Location.Address,
		},
		Items:      make([]FoodItem, 0, len(d.Items)),
		Status:     d.Status.String(),
		DistanceKm: d.DistanceKm,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if d.RecipientID != nil {
		s := d.RecipientID.String()
		out.RecipientID = &s
	}
	if d.RescuerID != nil {
		s := d.RescuerID.String()
		out.RescuerID = &s
	}
	for _, it := range d.Items {
		tags := it.Tags
		if tags == nil {
			tags = []string{}
		}
		out.Items = append(out.Items, FoodItem{
			ID:           it.ID.String(),
			Title:        it.Title,
			Description:  it.Description,
			Category:     it.Category.String(),
			Quantity:     it.Quantity,
			PreparedTime: it.PreparedTime,
			ExpiryTime:   it.ExpiryTime,
			IsPerishable: it.IsPerishable,
			SafetyScore:  it.SafetyScore,
			SafetyNotes:  it.SafetyNotes,
			ImageURL:     it.ImageURL,
			Tags:         tags,
		})
	}
	return out
}

func FromView(v view.View) View {
	out := View{
		Role:            v.Role.String(),
		NeedsOnboarding: v.NeedsOnboarding,
		CanPost:         view.For(v.Role).CanPost(),
		Degraded:        v.Degraded,
		Sections:        make([]Section, 0, len(v.Sections)),
	}
	for _, s := range v.Sections {
		sec := Section{Name: s.Name, Items: make([]ViewItem, 0, len(s.Items))}
		for i := range s.Items {
			it := &s.Items[i]
			actions := make([]string, 0, len(it.Actions))
			for _, a := range it.Actions {
				actions = append(actions, a.String())
			}
			sec.Items = append(sec.Items, ViewItem{
				Donation:      FromDonation(&it.Donation),
				Actions:       actions,
				DonorVerified: it.DonorVerified,
			})
		}
		out.Sections = append(out.Sections, sec)
	}
	return out
}

func FromUser(u *domain.User) User {
	return User{
		ID:              u.ID.String(),
		Email:           u.Email,
		Name:            u.Name,
		AvatarURL:       u.AvatarURL,
		Role:            u.Role.String(),
		NeedsOnboarding: u.NeedsOnboarding(),
		CreatedAt:       u.CreatedAt,
	}
}

func FromOrganization(p *domain.OrganizationProfile) Organization {
	return Organization{
		ID:                 p.ID.String(),
		UserID:             p.UserID.String(),
		Type:               p.Type.String(),
		Name:               p.Name,
		RegistrationNumber: p.RegistrationNumber,
		ContactPerson:      p.ContactPerson,
		Phone:              p.Phone,
		Address:            p.Address,
		MapsURL:            p.MapsURL,
		IsVerified:         p.IsVerified,
		VerifiedAt:         p.VerifiedAt,
		CreatedAt:          p.CreatedAt,
	}
}

func FromImpact(m domain.ImpactMetrics) Impact {
	return Impact{
		MealsSaved:     m.MealsSaved,
		FoodRescuedKg:  m.FoodRescuedKg,
		CO2PreventedKg: m.CO2PreventedKg,
		Deliveries:     m.Deliveries,
	}
}
