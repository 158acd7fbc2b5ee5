// Package donation implements the donation lifecycle: posting, claiming,
// mission acceptance, pickup, delivery and withdrawal, each applied as a
// conditional write against the donation store.
package donation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Saifff-551/foodhelp/internal/config"
	"github.com/Saifff-551/foodhelp/internal/domain"
)

//go:generate moq -out mocks_test.go -pkg donation . userRepo safetyOracle orgVerifier notifier

type donationStore interface {
	List(ctx context.Context) ([]domain.Donation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Donation, error)
	Insert(ctx context.Context, d *domain.Donation) (*domain.Donation, error)
	ConditionalUpdate(ctx context.Context, id uuid.UUID, guard domain.DonationGuard, patch domain.DonationPatch) (*domain.Donation, error)
	DeleteIf(ctx context.Context, id uuid.UUID, guard domain.DonationGuard) error
}

type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type safetyOracle interface {
	Assess(ctx context.Context, description, preparedTime string) domain.SafetyAssessment
}

type orgVerifier interface {
	IsVerified(ctx context.Context, userID uuid.UUID, typ domain.OrganizationType) (bool, error)
}

type notifier interface {
	Notify(ctx context.Context)
}

type metricsRecorder interface {
	IncTransition(action, outcome string)
	IncSafety(degraded bool)
}

// Service is the donation lifecycle engine.
type Service struct {
	log      *slog.Logger
	store    donationStore
	users    userRepo
	oracle   safetyOracle
	orgs     orgVerifier
	notifier notifier
	metrics  metricsRecorder

	requireVerified    bool
	maxItems           int
	scoringConcurrency int
	now                func() time.Time
}

// NewService creates a new donation service. metrics may be nil.
func NewService(
	logger *slog.Logger,
	store donationStore,
	users userRepo,
	oracle safetyOracle,
	orgs orgVerifier,
	notifier notifier,
	metrics metricsRecorder,
	cfg config.MarketplaceConfig,
	scoringConcurrency int,
) *Service {
	if scoringConcurrency <= 0 {
		scoringConcurrency = 1
	}
	return &Service{
		log:                logger.With("service", "donation"),
		store:              store,
		users:              users,
		oracle:             oracle,
		orgs:               orgs,
		notifier:           notifier,
		metrics:            metrics,
		requireVerified:    cfg.RequireVerifiedOrgs,
		maxItems:           cfg.MaxItemsPerDonation,
		scoringConcurrency: scoringConcurrency,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) record(action domain.Action, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncTransition(action.String(), outcome(err))
}

func (s *Service) recordSafety(degraded bool) {
	if s.metrics != nil {
		s.metrics.IncSafety(degraded)
	}
}
