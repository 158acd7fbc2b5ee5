package verification

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

const (
	badgeMaxBatch = 100
	badgeWait     = 2 * time.Millisecond
)

// Badges batches "is this donor a verified restaurant" lookups. A Badges
// value caches its answers, so create one per rendered snapshot.
type Badges struct {
	loader *dataloader.Loader[uuid.UUID, bool]
	failed atomic.Bool
}

// NewBadges creates a badge loader backed by the registry.
func (s *Service) NewBadges() *Badges {
	return &Badges{
		loader: dataloader.NewBatchedLoader(
			newBadgeBatchFn(s.orgs),
			dataloader.WithWait[uuid.UUID, bool](badgeWait),
			dataloader.WithBatchCapacity[uuid.UUID, bool](badgeMaxBatch),
		),
	}
}

// Verified returns the verified flag for each donor.
func (b *Badges) Verified(ctx context.Context, donorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(donorIDs))
	if len(donorIDs) == 0 {
		return out, nil
	}

	values, errs := b.loader.LoadMany(ctx, donorIDs)()
	for _, err := range errs {
		if err != nil {
			b.failed.Store(true)
			return nil, fmt.Errorf("verification.Badges: %w", err)
		}
	}
	for i, id := range donorIDs {
		out[id] = values[i]
	}
	return out, nil
}

func newBadgeBatchFn(repo orgRepo) dataloader.BatchFunc[uuid.UUID, bool] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[bool] {
		verified, err := repo.ListVerifiedUserIDs(ctx, domain.OrganizationTypeRestaurant, keys)
		if err != nil {
			results := make([]*dataloader.Result[bool], len(keys))
			for i := range results {
				results[i] = &dataloader.Result[bool]{Error: err}
			}
			return results
		}

		set := make(map[uuid.UUID]bool, len(verified))
		for _, id := range verified {
			set[id] = true
		}

		results := make([]*dataloader.Result[bool], len(keys))
		for i, key := range keys {
			results[i] = &dataloader.Result[bool]{Data: set[key]}
		}
		return results
	}
}

// BadgeCache hands out one Badges per snapshot version so that concurrent
// renders of the same snapshot share a batch. A verification or a failed
// lookup also retires the cached loader.
type BadgeCache struct {
	svc *Service

	mu      sync.Mutex
	version uint64
	changes uint64
	current *Badges
}

// NewBadgeCache creates an empty cache.
func (s *Service) NewBadgeCache() *BadgeCache {
	return &BadgeCache{svc: s}
}

// For returns the loader for a snapshot version, replacing the cached one
// when the version moves on, the registry has changed, or its last lookup
// failed.
func (c *BadgeCache) For(version uint64) *Badges {
	c.mu.Lock()
	defer c.mu.Unlock()

	changes := c.svc.changes.Load()
	if c.current == nil || version != c.version || changes != c.changes || c.current.failed.Load() {
		c.current = c.svc.NewBadges()
		c.version = version
		c.changes = changes
	}
	return c.current
}
