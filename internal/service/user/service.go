package user

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

//go:generate moq -out user_repo_mock_test.go -pkg user . userRepo

// userRepo defines the user repository interface needed by user service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, name *string, avatarURL *string) (*domain.User, error)
	AssignRoleIfPending(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// Service implements user profile, onboarding and role administration.
type Service struct {
	log   *slog.Logger
	users userRepo
}

// NewService creates a new user service instance.
func NewService(logger *slog.Logger, users userRepo) *Service {
	return &Service{
		log:   logger.With("service", "user"),
		users: users,
	}
}
