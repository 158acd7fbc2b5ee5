// Package verification holds restaurant and NGO profiles and the admin
// approval that marks them verified.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Saifff-551/foodhelp/internal/domain"
	"github.com/Saifff-551/foodhelp/pkg/ctxutil"
)

type orgRepo interface {
	Create(ctx context.Context, p *domain.OrganizationProfile) (*domain.OrganizationProfile, error)
	GetByID(ctx context.Context, typ domain.OrganizationType, id uuid.UUID) (*domain.OrganizationProfile, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.OrganizationProfile, error)
	ListPending(ctx context.Context) ([]domain.OrganizationProfile, error)
	Verify(ctx context.Context, typ domain.OrganizationType, id uuid.UUID) (*domain.OrganizationProfile, error)
	IsVerified(ctx context.Context, userID uuid.UUID, typ domain.OrganizationType) (bool, error)
	ListVerifiedUserIDs(ctx context.Context, typ domain.OrganizationType, userIDs []uuid.UUID) ([]uuid.UUID, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type notifier interface {
	Notify(ctx context.Context)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context) {}

// Service implements the verification registry.
type Service struct {
	log      *slog.Logger
	orgs     orgRepo
	users    userRepo
	notifier notifier
	validate *validator.Validate
	now      func() time.Time

	// changes counts successful verifications. Badge caches compare it
	// to decide whether their answers are still current.
	changes atomic.Uint64
}

// NewService creates a new verification service. notify is told when a
// verification changes donor badges; nil disables that.
func NewService(logger *slog.Logger, orgs orgRepo, users userRepo, notify notifier) *Service {
	if notify == nil {
		notify = noopNotifier{}
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return &Service{
		log:      logger.With("service", "verification"),
		orgs:     orgs,
		users:    users,
		notifier: notify,
		validate: v,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RegisterInput is the organization registration form. RegistrationNumber
// is the FSSAI licence for restaurants and the registration number for NGOs.
type RegisterInput struct {
	Name               string  `json:"name"                validate:"required,max=200"`
	RegistrationNumber string  `json:"registrationNumber"  validate:"required,max=64"`
	ContactPerson      string  `json:"contactPerson"       validate:"required,max=120"`
	Phone              string  `json:"phone"               validate:"required,max=32"`
	Address            string  `json:"address"             validate:"required,max=500"`
	MapsURL            *string `json:"mapsUrl"             validate:"omitempty,url,max=2000"`
}

// RegisterRestaurant files an unverified restaurant profile for the
// calling donor.
func (s *Service) RegisterRestaurant(ctx context.Context, input RegisterInput) (*domain.OrganizationProfile, error) {
	p, err := s.register(ctx, domain.OrganizationTypeRestaurant, input)
	if err != nil {
		return nil, fmt.Errorf("verification.RegisterRestaurant: %w", err)
	}
	return p, nil
}

// RegisterNGO files an unverified NGO profile for the calling recipient.
func (s *Service) RegisterNGO(ctx context.Context, input RegisterInput) (*domain.OrganizationProfile, error) {
	p, err := s.register(ctx, domain.OrganizationTypeNGO, input)
	if err != nil {
		return nil, fmt.Errorf("verification.RegisterNGO: %w", err)
	}
	return p, nil
}

func (s *Service) register(ctx context.Context, typ domain.OrganizationType, input RegisterInput) (*domain.OrganizationProfile, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := s.check(input); err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if u.Role != typ.Role() {
		return nil, domain.ErrNotAuthorized
	}

	profile, err := s.orgs.Create(ctx, &domain.OrganizationProfile{
		ID:                 uuid.New(),
		UserID:             userID,
		Type:               typ,
		Name:               strings.TrimSpace(input.Name),
		RegistrationNumber: strings.TrimSpace(input.RegistrationNumber),
		ContactPerson:      strings.TrimSpace(input.ContactPerson),
		Phone:              strings.TrimSpace(input.Phone),
		Address:            strings.TrimSpace(input.Address),
		MapsURL:            input.MapsURL,
		CreatedAt:          s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "organization registered",
		slog.String("organization_id", profile.ID.String()),
		slog.String("type", typ.String()),
		slog.String("user_id", userID.String()))

	return profile, nil
}

func (s *Service) check(input RegisterInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return domain.NewValidationErrors(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "max":
		return "too long"
	case "url":
		return "must be a valid URL"
	default:
		return "invalid"
	}
}

// ListMine returns the caller's organization profiles.
func (s *Service) ListMine(ctx context.Context) ([]domain.OrganizationProfile, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	profiles, err := s.orgs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("verification.ListMine: %w", err)
	}
	return profiles, nil
}

// IsVerified reports whether the user holds a verified profile of typ.
func (s *Service) IsVerified(ctx context.Context, userID uuid.UUID, typ domain.OrganizationType) (bool, error) {
	ok, err := s.orgs.IsVerified(ctx, userID, typ)
	if err != nil {
		return false, fmt.Errorf("verification.IsVerified: %w", err)
	}
	return ok, nil
}
