// Package feed fans out total donation snapshots to live subscribers.
//
// Every change produces a full snapshot ordered by creation time, newest
// first. Subscribers replace their state with each snapshot they receive;
// a slow subscriber only ever holds the most recent one.
package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

// Snapshot is the complete donation set at one point in time.
type Snapshot struct {
	Donations []domain.Donation
	Version   uint64
	At        time.Time
	// Degraded marks an empty snapshot produced because the store could
	// not be read.
	Degraded bool
}

type donationSource interface {
	List(ctx context.Context) ([]domain.Donation, error)
}

type observer interface {
	SetFeedSubscribers(n int)
	IncFeedRefresh(degraded bool)
}

// Hub owns the subscriber set and the latest snapshot.
type Hub struct {
	src     donationSource
	timeout time.Duration
	log     *slog.Logger
	obs     observer

	// refreshMu is held from the store read until publication, so
	// snapshot versions follow the order in which the store was read.
	refreshMu sync.Mutex

	mu      sync.Mutex
	subs    map[uint64]*Subscription
	nextID  uint64
	version uint64
	latest  *Snapshot
}

// NewHub creates a hub reading from src. refreshTimeout bounds each store
// read; obs may be nil.
func NewHub(src donationSource, refreshTimeout time.Duration, obs observer, logger *slog.Logger) *Hub {
	return &Hub{
		src:     src,
		timeout: refreshTimeout,
		log:     logger.With("component", "feed"),
		obs:     obs,
		subs:    make(map[uint64]*Subscription),
	}
}

// Subscribe registers a new subscription. If a snapshot has already been
// loaded it is delivered immediately. The caller must Close the
// subscription on every exit path.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription{
		id:  h.nextID,
		hub: h,
		ch:  make(chan Snapshot, 1),
	}
	h.subs[sub.id] = sub
	if h.latest != nil {
		sub.ch <- *h.latest
	}

	h.reportSubscribers()
	return sub
}

// Refresh reloads the full donation set and pushes it to every subscriber.
// A store failure is published as a degraded empty snapshot. Concurrent
// refreshes run one at a time.
func (h *Hub) Refresh(ctx context.Context) Snapshot {
	h.refreshMu.Lock()
	defer h.refreshMu.Unlock()

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	donations, err := h.src.List(ctx)
	degraded := false
	if err != nil {
		h.log.WarnContext(ctx, "feed degraded to empty snapshot",
			slog.String("error", err.Error()))
		donations = []domain.Donation{}
		degraded = true
	}
	if h.obs != nil {
		h.obs.IncFeedRefresh(degraded)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.version++
	snap := Snapshot{
		Donations: donations,
		Version:   h.version,
		At:        time.Now().UTC(),
		Degraded:  degraded,
	}
	h.latest = &snap
	for _, sub := range h.subs {
		sub.offer(snap)
	}
	return snap
}

// Latest returns the most recent snapshot, if any.
func (h *Hub) Latest() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.latest == nil {
		return Snapshot{}, false
	}
	return *h.latest, true
}

// SubscriberCount returns the number of open subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close releases every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.ch)
		h.reportSubscribers()
	}
}

// reportSubscribers must be called with h.mu held.
func (h *Hub) reportSubscribers() {
	if h.obs != nil {
		h.obs.SetFeedSubscribers(len(h.subs))
	}
}
