package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Saifff-551/foodhelp/internal/domain"
	"github.com/Saifff-551/foodhelp/internal/transport/dto"
	"github.com/Saifff-551/foodhelp/pkg/ctxutil"
)

type userAdmin interface {
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, int, error)
	SetUserRole(ctx context.Context, targetUserID uuid.UUID, role domain.UserRole) (*domain.User, error)
}

type verificationAdmin interface {
	ListPending(ctx context.Context) ([]domain.OrganizationProfile, error)
	Verify(ctx context.Context, typ domain.OrganizationType, id uuid.UUID) (*domain.OrganizationProfile, error)
}

// AdminHandler serves admin REST endpoints.
type AdminHandler struct {
	users userAdmin
	orgs  verificationAdmin
	log   *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(users userAdmin, orgs verificationAdmin, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		users: users,
		orgs:  orgs,
		log:   logger.With("handler", "admin"),
	}
}

type userListResponse struct {
	Users []dto.User `json:"users"`
	Total int        `json:"total"`
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// ListUsers returns a page of users.
// GET /api/admin/users?limit=50&offset=0
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	users, total, err := h.users.ListUsers(r.Context(), limit, offset)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := userListResponse{Users: make([]dto.User, 0, len(users)), Total: total}
	for i := range users {
		resp.Users = append(resp.Users, dto.FromUser(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// SetRole overrides a user's role.
// PUT /api/admin/users/{id}/role
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req setRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.SetUserRole(r.Context(), id, domain.UserRole(req.Role))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromUser(u))
}

// PendingVerifications lists unverified organization profiles.
// GET /api/admin/verifications
func (h *AdminHandler) PendingVerifications(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	ps, err := h.orgs.ListPending(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, organizations(ps))
}

// Verify marks an organization profile verified.
// POST /api/admin/verifications/{type}/{id}
func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	typ := domain.OrganizationType(strings.ToUpper(r.PathValue("type")))

	p, err := h.orgs.Verify(r.Context(), typ, id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromOrganization(p))
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := ctxutil.UserIDFromCtx(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	if !ctxutil.IsAdminCtx(r.Context()) {
		writeError(w, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func pathUUID(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(key))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+key)
		return uuid.Nil, false
	}
	return id, true
}
