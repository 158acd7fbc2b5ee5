package auth

import (
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

// LoginInput holds parameters for OAuth login operation.
type LoginInput struct {
	Provider string
	Code     string
}

// Validate validates the login input.
func (i LoginInput) Validate(allowedProviders []string) error {
	var errs []domain.FieldError

	if i.Provider == "" {
		errs = append(errs, domain.FieldError{Field: "provider", Message: "required"})
	} else if !slices.Contains(allowedProviders, i.Provider) {
		errs = append(errs, domain.FieldError{Field: "provider", Message: "unsupported provider"})
	}

	if i.Code == "" {
		errs = append(errs, domain.FieldError{Field: "code", Message: "required"})
	} else if len(i.Code) > 4096 {
		errs = append(errs, domain.FieldError{Field: "code", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RefreshInput holds parameters for token refresh operation.
type RefreshInput struct {
	RefreshToken string
}

// Validate validates the refresh input.
func (i RefreshInput) Validate() error {
	var errs []domain.FieldError

	if i.RefreshToken == "" {
		errs = append(errs, domain.FieldError{Field: "refresh_token", Message: "required"})
	} else if len(i.RefreshToken) > 512 {
		errs = append(errs, domain.FieldError{Field: "refresh_token", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RegisterInput holds parameters for password registration.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Validate validates the register input.
func (i RegisterInput) Validate() error {
	var errs []domain.FieldError

	errs = appendEmailErrors(errs, i.Email)

	if i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if utf8.RuneCountInString(i.Name) < 2 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too short"})
	} else if utf8.RuneCountInString(i.Name) > 120 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}

	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	} else if len(i.Password) < 8 {
		errs = append(errs, domain.FieldError{Field: "password", Message: "must be at least 8 characters"})
	} else if len(i.Password) > 72 {
		errs = append(errs, domain.FieldError{Field: "password", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// LoginPasswordInput holds parameters for password login.
type LoginPasswordInput struct {
	Email    string
	Password string
}

// Validate validates the password login input.
func (i LoginPasswordInput) Validate() error {
	var errs []domain.FieldError

	errs = appendEmailErrors(errs, i.Email)

	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	} else if len(i.Password) > 72 {
		errs = append(errs, domain.FieldError{Field: "password", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func appendEmailErrors(errs []domain.FieldError, email string) []domain.FieldError {
	switch {
	case email == "":
		return append(errs, domain.FieldError{Field: "email", Message: "required"})
	case len(email) > 254:
		return append(errs, domain.FieldError{Field: "email", Message: "too long"})
	}
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return append(errs, domain.FieldError{Field: "email", Message: "invalid email"})
	}
	return errs
}
