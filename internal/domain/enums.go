package domain

// DonationStatus is the lifecycle state of a donation.
type DonationStatus string

const (
	DonationStatusAvailable DonationStatus = "AVAILABLE"
	DonationStatusClaimed   DonationStatus = "CLAIMED"
	DonationStatusPickedUp  DonationStatus = "PICKED_UP"
	DonationStatusDelivered DonationStatus = "DELIVERED"
	DonationStatusVerified  DonationStatus = "VERIFIED"
)

func (s DonationStatus) String() string { return string(s) }

func (s DonationStatus) IsValid() bool {
	return s.Rank() > 0
}

// Rank orders statuses along the lifecycle. Unknown statuses rank 0.
func (s DonationStatus) Rank() int {
	switch s {
	case DonationStatusAvailable:
		return 1
	case DonationStatusClaimed:
		return 2
	case DonationStatusPickedUp:
		return 3
	case DonationStatusDelivered:
		return 4
	case DonationStatusVerified:
		return 5
	}
	return 0
}

// IsTerminal reports whether no rescuer or recipient action can advance s.
func (s DonationStatus) IsTerminal() bool {
	return s == DonationStatusDelivered || s == DonationStatusVerified
}

// HasRecipient reports whether a donation in status s must carry a recipient.
func (s DonationStatus) HasRecipient() bool {
	return s.Rank() >= DonationStatusClaimed.Rank()
}

// UserRole is the operational role of a user.
type UserRole string

const (
	UserRoleDonor     UserRole = "DONOR"
	UserRoleRecipient UserRole = "RECIPIENT"
	UserRoleRescuer   UserRole = "RESCUER"
	UserRoleAdmin     UserRole = "ADMIN"
	UserRolePending   UserRole = "PENDING"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleDonor, UserRoleRecipient, UserRoleRescuer, UserRoleAdmin, UserRolePending:
		return true
	}
	return false
}

// IsOperational reports whether r grants donation capabilities.
func (r UserRole) IsOperational() bool {
	return r == UserRoleDonor || r == UserRoleRecipient || r == UserRoleRescuer
}

// IsSelectable reports whether a pending user may pick r during onboarding.
func (r UserRole) IsSelectable() bool {
	return r.IsOperational()
}

// ResolveRole parses a stored role. Empty or unknown values resolve to
// PENDING and ok is false, so callers can log the fallback.
func ResolveRole(raw string) (role UserRole, ok bool) {
	r := UserRole(raw)
	if r.IsValid() {
		return r, true
	}
	return UserRolePending, false
}

// FoodCategory classifies a food item.
type FoodCategory string

const (
	FoodCategoryCookedMeal     FoodCategory = "COOKED_MEAL"
	FoodCategoryRawIngredients FoodCategory = "RAW_INGREDIENTS"
	FoodCategoryPackagedGoods  FoodCategory = "PACKAGED_GOODS"
	FoodCategoryBakery         FoodCategory = "BAKERY"
	FoodCategoryDairyProduce   FoodCategory = "DAIRY_PRODUCE"
)

func (c FoodCategory) String() string { return string(c) }

func (c FoodCategory) IsValid() bool {
	switch c {
	case FoodCategoryCookedMeal, FoodCategoryRawIngredients, FoodCategoryPackagedGoods,
		FoodCategoryBakery, FoodCategoryDairyProduce:
		return true
	}
	return false
}

// OrganizationType distinguishes restaurant and NGO verification records.
type OrganizationType string

const (
	OrganizationTypeRestaurant OrganizationType = "RESTAURANT"
	OrganizationTypeNGO        OrganizationType = "NGO"
)

func (t OrganizationType) String() string { return string(t) }

func (t OrganizationType) IsValid() bool {
	return t == OrganizationTypeRestaurant || t == OrganizationTypeNGO
}

// Role returns the user role an organization of this type belongs to.
func (t OrganizationType) Role() UserRole {
	switch t {
	case OrganizationTypeRestaurant:
		return UserRoleDonor
	case OrganizationTypeNGO:
		return UserRoleRecipient
	}
	return UserRolePending
}
