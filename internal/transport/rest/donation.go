package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/Saifff-551/foodhelp/internal/domain"
	"github.com/Saifff-551/foodhelp/internal/feed"
	"github.com/Saifff-551/foodhelp/internal/service/donation"
	"github.com/Saifff-551/foodhelp/internal/service/view"
	"github.com/Saifff-551/foodhelp/internal/transport/dto"
)

type donationService interface {
	Post(ctx context.Context, input donation.PostInput) (*domain.Donation, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Donation, error)
	Snapshot(ctx context.Context) ([]domain.Donation, error)
	Claim(ctx context.Context, id uuid.UUID) (*domain.Donation, error)
	AcceptMission(ctx context.Context, id uuid.UUID) (*domain.Donation, error)
	ConfirmPickup(ctx context.Context, id uuid.UUID) (*domain.Donation, error)
	ConfirmDelivery(ctx context.Context, id uuid.UUID) (*domain.Donation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Impact(ctx context.Context) (domain.ImpactMetrics, error)
}

type profileReader interface {
	GetProfile(ctx context.Context) (*domain.User, error)
}

type snapshotCache interface {
	Latest() (feed.Snapshot, bool)
}

// DonationHandler serves the donation marketplace.
type DonationHandler struct {
	svc    donationService
	users  profileReader
	feed   snapshotCache
	badges func() view.BadgeSource
	log    *slog.Logger
}

// NewDonationHandler creates a DonationHandler. feed and badges may be nil.
func NewDonationHandler(
	svc donationService,
	users profileReader,
	feed snapshotCache,
	badges func() view.BadgeSource,
	logger *slog.Logger,
) *DonationHandler {
	return &DonationHandler{
		svc:    svc,
		users:  users,
		feed:   feed,
		badges: badges,
		log:    logger.With("handler", "donation"),
	}
}

type locationRequest struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type itemRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Quantity     string   `json:"quantity"`
	PreparedTime string   `json:"preparedTime"`
	ExpiryTime   string   `json:"expiryTime"`
	IsPerishable bool     `json:"isPerishable"`
	ImageURL     *string  `json:"imageUrl"`
	Tags         []string `json:"tags"`
}

type postRequest struct {
	Location locationRequest `json:"location"`
	Items    []itemRequest   `json:"items"`
}

func (req postRequest) input() donation.PostInput {
	in := donation.PostInput{
		Location: domain.Location{
			Lat:     req.Location.Lat,
			Lng:     req.Location.Lng,
			Address: req.Location.Address,
		},
		Items: make([]donation.ItemInput, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, donation.ItemInput{
			Title:        it.Title,
			Description:  it.Description,
			Category:     domain.FoodCategory(it.Category),
			Quantity:     it.Quantity,
			PreparedTime: it.PreparedTime,
			ExpiryTime:   it.ExpiryTime,
			IsPerishable: it.IsPerishable,
			ImageURL:     it.ImageURL,
			Tags:         it.Tags,
		})
	}
	return in
}

// Post handles POST /api/donations.
func (h *DonationHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.svc.Post(r.Context(), req.input())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.FromDonation(d))
}

// Get handles GET /api/donations/{id}.
func (h *DonationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromDonation(d))
}

// Delete handles DELETE /api/donations/{id}.
func (h *DonationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Claim handles POST /api/donations/{id}/claim.
func (h *DonationHandler) Claim(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Claim)
}

// Accept handles POST /api/donations/{id}/accept.
func (h *DonationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.AcceptMission)
}

// Pickup handles POST /api/donations/{id}/pickup.
func (h *DonationHandler) Pickup(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.ConfirmPickup)
}

// Deliver handles POST /api/donations/{id}/deliver.
func (h *DonationHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.ConfirmDelivery)
}

func (h *DonationHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context, uuid.UUID) (*domain.Donation, error),
) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	d, err := fn(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromDonation(d))
}

// View handles GET /api/donations/view: the caller's role-shaped view of
// the latest snapshot.
func (h *DonationHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	u, err := h.users.GetProfile(ctx)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	donations, degraded := h.snapshot(ctx)

	var badges view.BadgeSource
	if h.badges != nil {
		badges = h.badges()
	}
	v, err := view.Render(ctx, u, donations, degraded, badges)
	if err != nil {
		h.log.WarnContext(ctx, "donor badges unavailable", slog.String("error", err.Error()))
	}
	writeJSON(w, http.StatusOK, dto.FromView(v))
}

// snapshot prefers the live feed's latest snapshot. A failed store read
// degrades to an empty snapshot, as the feed does.
func (h *DonationHandler) snapshot(ctx context.Context) ([]domain.Donation, bool) {
	if h.feed != nil {
		if snap, ok := h.feed.Latest(); ok {
			return snap.Donations, snap.Degraded
		}
	}
	ds, err := h.svc.Snapshot(ctx)
	if err != nil {
		h.log.WarnContext(ctx, "view degraded to empty snapshot", slog.String("error", err.Error()))
		return []domain.Donation{}, true
	}
	return ds, false
}

// Impact handles GET /api/impact.
func (h *DonationHandler) Impact(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Impact(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromImpact(m))
}
