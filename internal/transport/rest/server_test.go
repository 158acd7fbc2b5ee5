package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Saifff-551/foodhelp/internal/adapter/memory"
	"github.com/Saifff-551/foodhelp/internal/config"
	"github.com/Saifff-551/foodhelp/internal/domain"
	"github.com/Saifff-551/foodhelp/internal/service/donation"
	"github.com/Saifff-551/foodhelp/internal/service/user"
	"github.com/Saifff-551/foodhelp/internal/service/verification"
	"github.com/Saifff-551/foodhelp/internal/service/view"
	"github.com/Saifff-551/foodhelp/pkg/ctxutil"
)

const (
	testUserHeader = "X-Test-User"
	testRoleHeader = "X-Test-Role"
)

type fixedOracle struct{ score int }

func (o fixedOracle) Assess(context.Context, string, string) domain.SafetyAssessment {
	return domain.SafetyAssessment{Score: o.score, HandlingInstructions: "Keep covered."}
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context) {}

// testServer wires the real services over memory stores behind a mux with
// the production route patterns. Identity comes from test headers.
type testServer struct {
	t      *testing.T
	srv    *httptest.Server
	users  *memory.UserStore
	verify *verification.Service
}

func newTestServer(t *testing.T, cfg config.MarketplaceConfig) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	users := memory.NewUserStore()
	orgs := memory.NewOrganizationStore()

	verifySvc := verification.NewService(logger, orgs, users, noopNotifier{})
	userSvc := user.NewService(logger, users)
	donationSvc := donation.NewService(logger, memory.NewDonationStore(), users,
		fixedOracle{score: 90}, verifySvc, noopNotifier{}, nil, cfg, 2)

	donations := NewDonationHandler(donationSvc, userSvc, nil,
		func() view.BadgeSource { return verifySvc.NewBadges() }, logger)
	me := NewUserHandler(userSvc, logger)
	org := NewOrganizationHandler(verifySvc, logger)
	admin := NewAdminHandler(userSvc, verifySvc, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/me", me.Me)
	mux.HandleFunc("PATCH /api/me", me.UpdateMe)
	mux.HandleFunc("POST /api/me/role", me.SelectRole)
	mux.HandleFunc("POST /api/organizations/restaurant", org.RegisterRestaurant)
	mux.HandleFunc("POST /api/organizations/ngo", org.RegisterNGO)
	mux.HandleFunc("GET /api/organizations/mine", org.Mine)
	mux.HandleFunc("GET /api/admin/users", admin.ListUsers)
	mux.HandleFunc("PUT /api/admin/users/{id}/role", admin.SetRole)
	mux.HandleFunc("GET /api/admin/verifications", admin.PendingVerifications)
	mux.HandleFunc("POST /api/admin/verifications/{type}/{id}", admin.Verify)
	mux.HandleFunc("POST /api/donations", donations.Post)
	mux.HandleFunc("GET /api/donations/view", donations.View)
	mux.HandleFunc("GET /api/donations/{id}", donations.Get)
	mux.HandleFunc("DELETE /api/donations/{id}", donations.Delete)
	mux.HandleFunc("POST /api/donations/{id}/claim", donations.Claim)
	mux.HandleFunc("POST /api/donations/{id}/accept", donations.Accept)
	mux.HandleFunc("POST /api/donations/{id}/pickup", donations.Pickup)
	mux.HandleFunc("POST /api/donations/{id}/deliver", donations.Deliver)
	mux.HandleFunc("GET /api/impact", donations.Impact)

	identity := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id, err := uuid.Parse(r.Header.Get(testUserHeader)); err == nil {
			ctx = ctxutil.WithUserID(ctx, id)
			ctx = ctxutil.WithUserRole(ctx, r.Header.Get(testRoleHeader))
		}
		mux.ServeHTTP(w, r.WithContext(ctx))
	})

	srv := httptest.NewServer(identity)
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv, users: users, verify: verifySvc}
}

func (s *testServer) user(name string, role domain.UserRole) *domain.User {
	s.t.Helper()
	u, err := s.users.Create(context.Background(), &domain.User{
		ID:    uuid.New(),
		Email: uuid.NewString() + "@example.com",
		Name:  name,
		Role:  role,
	})
	require.NoError(s.t, err)
	return u
}

// do sends a request as u (nil for anonymous) and decodes the JSON response
// into out when out is non-nil.
func (s *testServer) do(u *domain.User, method, path string, body any, out any) int {
	s.t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.srv.URL+path, rd)
	require.NoError(s.t, err)
	if u != nil {
		req.Header.Set(testUserHeader, u.ID.String())
		req.Header.Set(testRoleHeader, u.Role.String())
	}

	resp, err := s.srv.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}
