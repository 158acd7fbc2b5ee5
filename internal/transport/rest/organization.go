package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Saifff-551/foodhelp/internal/domain"
	"github.com/Saifff-551/foodhelp/internal/service/verification"
	"github.com/Saifff-551/foodhelp/internal/transport/dto"
)

type registryService interface {
	RegisterRestaurant(ctx context.Context, input verification.RegisterInput) (*domain.OrganizationProfile, error)
	RegisterNGO(ctx context.Context, input verification.RegisterInput) (*domain.OrganizationProfile, error)
	ListMine(ctx context.Context) ([]domain.OrganizationProfile, error)
}

// OrganizationHandler serves restaurant and NGO registration.
type OrganizationHandler struct {
	svc registryService
	log *slog.Logger
}

// NewOrganizationHandler creates an OrganizationHandler.
func NewOrganizationHandler(svc registryService, logger *slog.Logger) *OrganizationHandler {
	return &OrganizationHandler{svc: svc, log: logger.With("handler", "organization")}
}

// RegisterRestaurant handles POST /api/organizations/restaurant.
func (h *OrganizationHandler) RegisterRestaurant(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, h.svc.RegisterRestaurant)
}

// RegisterNGO handles POST /api/organizations/ngo.
func (h *OrganizationHandler) RegisterNGO(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, h.svc.RegisterNGO)
}

func (h *OrganizationHandler) register(
	w http.ResponseWriter,
	r *http.Request,
	fn func(context.Context, verification.RegisterInput) (*domain.OrganizationProfile, error),
) {
	var req verification.RegisterInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := fn(r.Context(), req)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.FromOrganization(p))
}

// Mine handles GET /api/organizations/mine.
func (h *OrganizationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.ListMine(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, organizations(ps))
}

func organizations(ps []domain.OrganizationProfile) []dto.Organization {
	out := make([]dto.Organization, 0, len(ps))
	for i := range ps {
		out = append(out, dto.FromOrganization(&ps[i]))
	}
	return out
}
