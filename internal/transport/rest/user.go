package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Saifff-551/foodhelp/internal/domain"
	"github.com/Saifff-551/foodhelp/internal/service/user"
	"github.com/Saifff-551/foodhelp/internal/transport/dto"
)

type profileService interface {
	GetProfile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, input user.UpdateProfileInput) (*domain.User, error)
	SelectRole(ctx context.Context, role domain.UserRole) (*domain.User, error)
}

// UserHandler serves the caller's own profile and onboarding.
type UserHandler struct {
	svc profileService
	log *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc profileService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: logger.With("handler", "user")}
}

type updateProfileRequest struct {
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

type selectRoleRequest struct {
	Role string `json:"role"`
}

// Me handles GET /api/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetProfile(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromUser(u))
}

// UpdateMe handles PATCH /api/me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), user.UpdateProfileInput{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromUser(u))
}

// SelectRole handles POST /api/me/role. Clients should refresh their
// tokens afterwards to pick up the new role claim.
func (h *UserHandler) SelectRole(w http.ResponseWriter, r *http.Request) {
	var req selectRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.svc.SelectRole(r.Context(), domain.UserRole(req.Role))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromUser(u))
}
