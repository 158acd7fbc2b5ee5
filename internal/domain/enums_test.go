package domain

import "testing"

func TestDonationStatus_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status DonationStatus
		want   bool
	}{
		{DonationStatusAvailable, true},
		{DonationStatusClaimed, true},
		{DonationStatusPickedUp, true},
		{DonationStatusDelivered, true},
		{DonationStatusVerified, true},
		{DonationStatus("INVALID"), false},
		{DonationStatus(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("DonationStatus(%q).IsValid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestDonationStatus_RankIsMonotonic(t *testing.T) {
	t.Parallel()

	order := []DonationStatus{
		DonationStatusAvailable, DonationStatusClaimed, DonationStatusPickedUp,
		DonationStatusDelivered, DonationStatusVerified,
	}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("Rank(%s) = %d should exceed Rank(%s) = %d",
				order[i], order[i].Rank(), order[i-1], order[i-1].Rank())
		}
	}
}

func TestDonationStatus_HasRecipient(t *testing.T) {
	t.Parallel()

	if DonationStatusAvailable.HasRecipient() {
		t.Error("AVAILABLE should not carry a recipient")
	}
	for _, s := range []DonationStatus{DonationStatusClaimed, DonationStatusPickedUp, DonationStatusDelivered, DonationStatusVerified} {
		if !s.HasRecipient() {
			t.Errorf("%s should carry a recipient", s)
		}
	}
}

func TestDonationStatus_IsTerminal(t *testing.T) {
	t.Parallel()

	if DonationStatusPickedUp.IsTerminal() {
		t.Error("PICKED_UP is not terminal")
	}
	if !DonationStatusDelivered.IsTerminal() || !DonationStatusVerified.IsTerminal() {
		t.Error("DELIVERED and VERIFIED are terminal")
	}
}

func TestResolveRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		want   UserRole
		wantOK bool
	}{
		{"DONOR", UserRoleDonor, true},
		{"RECIPIENT", UserRoleRecipient, true},
		{"RESCUER", UserRoleRescuer, true},
		{"ADMIN", UserRoleAdmin, true},
		{"PENDING", UserRolePending, true},
		{"", UserRolePending, false},
		{"donor", UserRolePending, false},
		{"SUPERUSER", UserRolePending, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, ok := ResolveRole(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ResolveRole(%q) = (%s, %v), want (%s, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestUserRole_IsSelectable(t *testing.T) {
	t.Parallel()

	for _, r := range []UserRole{UserRoleDonor, UserRoleRecipient, UserRoleRescuer} {
		if !r.IsSelectable() {
			t.Errorf("%s should be selectable", r)
		}
	}
	for _, r := range []UserRole{UserRoleAdmin, UserRolePending, UserRole("X")} {
		if r.IsSelectable() {
			t.Errorf("%s should not be selectable", r)
		}
	}
}

func TestFoodCategory_IsValid(t *testing.T) {
	t.Parallel()

	valid := []FoodCategory{
		FoodCategoryCookedMeal, FoodCategoryRawIngredients, FoodCategoryPackagedGoods,
		FoodCategoryBakery, FoodCategoryDairyProduce,
	}
	for _, c := range valid {
		if !c.IsValid() {
			t.Errorf("FoodCategory(%q).IsValid() = false, want true", c)
		}
	}
	if FoodCategory("SNACKS").IsValid() {
		t.Error("FoodCategory(SNACKS).IsValid() = true, want false")
	}
}

func TestOrganizationType_Role(t *testing.T) {
	t.Parallel()

	if got := OrganizationTypeRestaurant.Role(); got != UserRoleDonor {
		t.Errorf("RESTAURANT.Role() = %s, want DONOR", got)
	}
	if got := OrganizationTypeNGO.Role(); got != UserRoleRecipient {
		t.Errorf("NGO.Role() = %s, want RECIPIENT", got)
	}
	if got := OrganizationType("X").Role(); got != UserRolePending {
		t.Errorf("unknown.Role() = %s, want PENDING", got)
	}
}
