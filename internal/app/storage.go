package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Saifff-551/foodhelp/internal/adapter/memory"
	"github.com/Saifff-551/foodhelp/internal/adapter/postgres"
	"github.com/Saifff-551/foodhelp/internal/adapter/postgres/authmethod"
	pgdonation "github.com/Saifff-551/foodhelp/internal/adapter/postgres/donation"
	"github.com/Saifff-551/foodhelp/internal/adapter/postgres/organization"
	"github.com/Saifff-551/foodhelp/internal/adapter/postgres/token"
	pguser "github.com/Saifff-551/foodhelp/internal/adapter/postgres/user"
	"github.com/Saifff-551/foodhelp/internal/config"
	"github.com/Saifff-551/foodhelp/internal/domain"
)

type donationStore interface {
	List(ctx context.Context) ([]domain.Donation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Donation, error)
	Insert(ctx context.Context, d *domain.Donation) (*domain.Donation, error)
	ConditionalUpdate(ctx context.Context, id uuid.UUID, guard domain.DonationGuard, patch domain.DonationPatch) (*domain.Donation, error)
	DeleteIf(ctx context.Context, id uuid.UUID, guard domain.DonationGuard) error
}

type userStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, name *string, avatarURL *string) (*domain.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (*domain.User, error)
	AssignRoleIfPending(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	CountUsers(ctx context.Context) (int, error)
}

type organizationStore interface {
	Create(ctx context.Context, p *domain.OrganizationProfile) (*domain.OrganizationProfile, error)
	GetByID(ctx context.Context, typ domain.OrganizationType, id uuid.UUID) (*domain.OrganizationProfile, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.OrganizationProfile, error)
	ListPending(ctx context.Context) ([]domain.OrganizationProfile, error)
	Verify(ctx context.Context, typ domain.OrganizationType, id uuid.UUID) (*domain.OrganizationProfile, error)
	IsVerified(ctx context.Context, userID uuid.UUID, typ domain.OrganizationType) (bool, error)
	ListVerifiedUserIDs(ctx context.Context, typ domain.OrganizationType, userIDs []uuid.UUID) ([]uuid.UUID, error)
}

type tokenStore interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeByID(ctx context.Context, id uuid.UUID) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int, error)
}

type authMethodStore interface {
	GetByOAuth(ctx context.Context, method domain.AuthMethodType, providerID string) (*domain.AuthMethod, error)
	GetByUserAndMethod(ctx context.Context, userID uuid.UUID, method domain.AuthMethodType) (*domain.AuthMethod, error)
	Create(ctx context.Context, am *domain.AuthMethod) (*domain.AuthMethod, error)
}

type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage is the set of repositories behind the services, either all on
// PostgreSQL or all in memory.
type storage struct {
	pool        *pgxpool.Pool
	donations   donationStore
	users       userStore
	orgs        organizationStore
	tokens      tokenStore
	authMethods authMethodStore
	tx          txRunner
}

func openStorage(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*storage, error) {
	if cfg.InMemory() {
		logger.Warn("no database configured, using in-memory storage; data is lost on restart")
		return &storage{
			donations:   memory.NewDonationStore(),
			users:       memory.NewUserStore(),
			orgs:        memory.NewOrganizationStore(),
			tokens:      memory.NewTokenStore(),
			authMethods: memory.NewAuthMethodStore(),
			tx:          memory.TxManager{},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	return postgresStorage(pool), nil
}

func postgresStorage(pool *pgxpool.Pool) *storage {
	return &storage{
		pool:        pool,
		donations:   pgdonation.New(pool),
		users:       pguser.New(pool),
		orgs:        organization.New(pool),
		tokens:      token.New(pool),
		authMethods: authmethod.New(pool),
		tx:          postgres.NewTxManager(pool),
	}
}

func (s *storage) close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
