package user

import (
	"github.com/Saifff-551/foodhelp/internal/domain"
)

// UpdateProfileInput holds parameters for profile update operation.
type UpdateProfileInput struct {
	Name      string
	AvatarURL *string
}

// Validate validates the update profile input.
func (i UpdateProfileInput) Validate() error {
	var errs []domain.FieldError

	if i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > 255 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}

	if i.AvatarURL != nil && len(*i.AvatarURL) > 512 {
		errs = append(errs, domain.FieldError{Field: "avatar_url", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
