package feed

import "sync"

// Subscription is a handle on the live feed. Snapshots arrive on C; the
// channel is closed after Close.
type Subscription struct {
	id   uint64
	hub  *Hub
	ch   chan Snapshot
	once sync.Once
}

// C returns the snapshot channel.
func (s *Subscription) C() <-chan Snapshot {
	return s.ch
}

// Close releases the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s.id)
	})
}

// offer replaces any undelivered snapshot with snap. Called with the hub
// lock held, so it is the only writer.
func (s *Subscription) offer(snap Snapshot) {
	select {
	case s.ch <- snap:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
}
