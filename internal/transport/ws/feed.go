// Package ws serves the live donation feed over WebSocket. Every frame is
// the caller's complete role view of one snapshot.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Saifff-551/foodhelp/internal/config"
	"github.com/Saifff-551/foodhelp/internal/domain"
	"github.com/Saifff-551/foodhelp/internal/feed"
	"github.com/Saifff-551/foodhelp/internal/service/view"
	"github.com/Saifff-551/foodhelp/internal/transport/dto"
	"github.com/Saifff-551/foodhelp/pkg/ctxutil"
)

const messageSnapshot = "snapshot"

type subscriber interface {
	Subscribe() *feed.Subscription
}

type profileReader interface {
	GetProfile(ctx context.Context) (*domain.User, error)
}

// FeedHandler upgrades authenticated requests and streams role views.
type FeedHandler struct {
	hub      subscriber
	users    profileReader
	badges   func(version uint64) view.BadgeSource
	upgrader websocket.Upgrader
	cfg      config.FeedConfig
	log      *slog.Logger
}

// NewFeedHandler creates a FeedHandler. badges may be nil; checkOrigin nil
// accepts only same-origin requests.
func NewFeedHandler(
	hub subscriber,
	users profileReader,
	badges func(version uint64) view.BadgeSource,
	checkOrigin func(r *http.Request) bool,
	cfg config.FeedConfig,
	logger *slog.Logger,
) *FeedHandler {
	return &FeedHandler{
		hub:    hub,
		users:  users,
		badges: badges,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
		cfg: cfg,
		log: logger.With("handler", "feed"),
	}
}

// ServeHTTP handles GET /ws/feed. Identity is resolved by the auth
// middleware before the upgrade.
func (h *FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WarnContext(r.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe()
	defer sub.Close()

	log := h.log.With(slog.String("user_id", userID.String()))
	log.DebugContext(r.Context(), "feed subscriber connected")

	done := make(chan struct{})
	go h.readLoop(conn, done)

	h.writeLoop(r.Context(), conn, sub, done, log)
	log.DebugContext(r.Context(), "feed subscriber disconnected")
}

// readLoop drains client frames so control messages are processed. It
// closes done when the peer goes away or stops answering pings.
func (h *FeedHandler) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	if h.cfg.ReadLimit > 0 {
		conn.SetReadLimit(h.cfg.ReadLimit)
	}
	wait := h.pongWait()
	if wait > 0 {
		conn.SetReadDeadline(time.Now().Add(wait)) //nolint:errcheck
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wait))
		})
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *FeedHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sub *feed.Subscription, done <-chan struct{}, log *slog.Logger) {
	var ping <-chan time.Time
	if h.cfg.PingInterval > 0 {
		ticker := time.NewTicker(h.cfg.PingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case snap, ok := <-sub.C():
			if !ok {
				h.writeClose(conn, websocket.CloseGoingAway, "server shutting down")
				return
			}
			if err := h.send(ctx, conn, snap, log); err != nil {
				log.DebugContext(ctx, "feed write failed", slog.String("error", err.Error()))
				return
			}
		case <-ping:
			if err := conn.WriteControl(websocket.PingMessage, nil, h.deadline()); err != nil {
				return
			}
		}
	}
}

// send renders snap for the current stored role of the caller. The role is
// reloaded per snapshot so that onboarding takes effect without a
// reconnect.
func (h *FeedHandler) send(ctx context.Context, conn *websocket.Conn, snap feed.Snapshot, log *slog.Logger) error {
	u, err := h.users.GetProfile(ctx)
	if err != nil {
		return err
	}

	var badges view.BadgeSource
	if h.badges != nil {
		badges = h.badges(snap.Version)
	}
	v, err := view.Render(ctx, u, snap.Donations, snap.Degraded, badges)
	if err != nil {
		log.WarnContext(ctx, "donor badges unavailable", slog.String("error", err.Error()))
	}

	if err := conn.SetWriteDeadline(h.deadline()); err != nil {
		return err
	}
	return conn.WriteJSON(dto.FeedMessage{
		Type:    messageSnapshot,
		Version: snap.Version,
		At:      snap.At,
		View:    dto.FromView(v),
	})
}

func (h *FeedHandler) writeClose(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	conn.WriteControl(websocket.CloseMessage, msg, h.deadline()) //nolint:errcheck
}

func (h *FeedHandler) deadline() time.Time {
	if h.cfg.WriteTimeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(h.cfg.WriteTimeout)
}

// pongWait is how long a silent peer is tolerated: two ping intervals.
func (h *FeedHandler) pongWait() time.Duration {
	return 2 * h.cfg.PingInterval
}
