package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saifff-551/foodhelp/internal/domain"
	"github.com/Saifff-551/foodhelp/internal/service/view"
)

func TestFromView_RecipientActions(t *testing.T) {
	t.Parallel()

	donor, recipient := uuid.New(), uuid.New()
	d := domain.Donation{
		ID:        uuid.New(),
		DonorID:   donor,
		DonorName: "Daily Bread Bakery",
		Status:    domain.DonationStatusAvailable,
		Items:     []domain.FoodItem{{ID: uuid.New(), Title: "Assorted Pastries & Breads", Category: domain.FoodCategoryBakery, Quantity: "15kg"}},
		CreatedAt: time.Now(),
	}

	v := view.For(domain.UserRoleRecipient).Build([]domain.Donation{d}, recipient)
	v.MarkVerified(map[uuid.UUID]bool{donor: true})

	out := FromView(v)
	require.Len(t, out.Sections, 2)
	assert.Equal(t, "RECIPIENT", out.Role)
	assert.False(t, out.CanPost)

	avail := out.Sections[0]
	assert.Equal(t, view.SectionAvailable, avail.Name)
	require.Len(t, avail.Items, 1)
	assert.Equal(t, []string{"CLAIM"}, avail.Items[0].Actions)
	assert.True(t, avail.Items[0].DonorVerified)
	assert.Equal(t, []string{}, avail.Items[0].Items[0].Tags)

	assert.Empty(t, out.Sections[1].Items)
	assert.NotNil(t, out.Sections[1].Items)
}

func TestFromDonation_JSONShape(t *testing.T) {
	t.Parallel()

	recipient := uuid.New()
	name := "Hope Shelter"
	d := domain.Donation{
		ID:            uuid.New(),
		DonorID:       uuid.New(),
		RecipientID:   &recipient,
		RecipientName: &name,
		Status:        domain.DonationStatusClaimed,
	}

	raw, err := json.Marshal(FromDonation(&d))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, recipient.String(), m["recipientId"])
	assert.Equal(t, "Hope Shelter", m["recipientName"])
	assert.Equal(t, "CLAIMED", m["status"])
	assert.NotContains(t, m, "rescuerId")
	assert.Equal(t, []any{}, m["items"])
}

func TestFromUser_NeedsOnboarding(t *testing.T) {
	t.Parallel()

	u := &domain.User{ID: uuid.New(), Email: "a@b.c", Role: domain.UserRolePending}
	assert.True(t, FromUser(u).NeedsOnboarding)

	u.Role = domain.UserRoleRescuer
	assert.False(t, FromUser(u).NeedsOnboarding)
}
