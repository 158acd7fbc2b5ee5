package feed

import "context"

// LocalNotifier refreshes the hub directly. Used when no cross-instance
// channel is configured.
type LocalNotifier struct {
	hub *Hub
}

// NewLocalNotifier creates a notifier bound to hub.
func NewLocalNotifier(hub *Hub) *LocalNotifier {
	return &LocalNotifier{hub: hub}
}

// Notify refreshes the hub. The refresh outlives the caller's cancellation
// so that a finished request still publishes its change.
func (n *LocalNotifier) Notify(ctx context.Context) {
	n.hub.Refresh(context.WithoutCancel(ctx))
}
