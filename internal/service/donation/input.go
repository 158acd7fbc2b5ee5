package donation

import (
	"fmt"
	"strings"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

const (
	maxQuantityLen = 64
	maxTimeLen     = 64
)

// PostInput holds parameters for posting a donation.
type PostInput struct {
	Location domain.Location
	Items    []ItemInput
}

// ItemInput describes one food item in a new donation.
type ItemInput struct {
	Title        string
	Description  string
	Category     domain.FoodCategory
	Quantity     string
	PreparedTime string
	ExpiryTime   string
	IsPerishable bool
	ImageURL     *string
	Tags         []string
}

// Validate validates the post input. maxItems <= 0 disables the item cap.
func (i PostInput) Validate(maxItems int) error {
	var errs []domain.FieldError

	if i.Location.Lat < -90 || i.Location.Lat > 90 {
		errs = append(errs, domain.FieldError{Field: "location.lat", Message: "must be in [-90, 90]"})
	}
	if i.Location.Lng < -180 || i.Location.Lng > 180 {
		errs = append(errs, domain.FieldError{Field: "location.lng", Message: "must be in [-180, 180]"})
	}
	if strings.TrimSpace(i.Location.Address) == "" {
		errs = append(errs, domain.FieldError{Field: "location.address", Message: "required"})
	}

	switch {
	case len(i.Items) == 0:
		errs = append(errs, domain.FieldError{Field: "items", Message: "at least one item is required"})
	case maxItems > 0 && len(i.Items) > maxItems:
		errs = append(errs, domain.FieldError{Field: "items", Message: fmt.Sprintf("at most %d items", maxItems)})
	}

	for n, it := range i.Items {
		prefix := fmt.Sprintf("items[%d].", n)
		if strings.TrimSpace(it.Title) == "" {
			errs = append(errs, domain.FieldError{Field: prefix + "title", Message: "required"})
		} else if len(it.Title) > 200 {
			errs = append(errs, domain.FieldError{Field: prefix + "title", Message: "too long"})
		}
		if len(it.Description) > 2000 {
			errs = append(errs, domain.FieldError{Field: prefix + "description", Message: "too long"})
		}
		if !it.Category.IsValid() {
			errs = append(errs, domain.FieldError{Field: prefix + "category", Message: "invalid category"})
		}
		if strings.TrimSpace(it.Quantity) == "" {
			errs = append(errs, domain.FieldError{Field: prefix + "quantity", Message: "required"})
		} else if len(it.Quantity) > maxQuantityLen {
			errs = append(errs, domain.FieldError{Field: prefix + "quantity", Message: "too long"})
		}
		if len(it.PreparedTime) > maxTimeLen {
			errs = append(errs, domain.FieldError{Field: prefix + "preparedTime", Message: "too long"})
		}
		if len(it.ExpiryTime) > maxTimeLen {
			errs = append(errs, domain.FieldError{Field: prefix + "expiryTime", Message: "too long"})
		}
		if len(it.Tags) > 10 {
			errs = append(errs, domain.FieldError{Field: prefix + "tags", Message: "at most 10 tags"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// description is the text sent to the safety oracle.
func (it ItemInput) description() string {
	if it.Description == "" {
		return fmt.Sprintf("%s (%s, %s)", it.Title, it.Category, it.Quantity)
	}
	return fmt.Sprintf("%s (%s, %s): %s", it.Title, it.Category, it.Quantity, it.Description)
}
