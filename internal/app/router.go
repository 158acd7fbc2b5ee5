package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	redisadapter "github.com/Saifff-551/foodhelp/internal/adapter/redis"
	"github.com/Saifff-551/foodhelp/internal/config"
	"github.com/Saifff-551/foodhelp/internal/feed"
	"github.com/Saifff-551/foodhelp/internal/metrics"
	authsvc "github.com/Saifff-551/foodhelp/internal/service/auth"
	"github.com/Saifff-551/foodhelp/internal/service/view"
	"github.com/Saifff-551/foodhelp/internal/transport/middleware"
	"github.com/Saifff-551/foodhelp/internal/transport/rest"
	"github.com/Saifff-551/foodhelp/internal/transport/ws"
)

type routerDeps struct {
	services services
	hub      *feed.Hub
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	limiter  *middleware.RateLimiter
	checks   []rest.Check
	logger   *slog.Logger
}

// identityValidator authenticates requests against the stored user, so a
// role change applies to the next request without re-issuing tokens.
type identityValidator struct {
	auth *authsvc.Service
}

func (v identityValidator) ValidateToken(ctx context.Context, token string) (uuid.UUID, string, error) {
	u, err := v.auth.ResolveIdentity(ctx, token)
	if err != nil {
		return uuid.Nil, "", err
	}
	return u.ID, u.Role.String(), nil
}

func newRouter(cfg *config.Config, d routerDeps) http.Handler {
	log := d.logger
	svcs := d.services

	badgeCache := svcs.verification.NewBadgeCache()

	health := rest.NewHealthHandler(BuildVersion(), d.checks...)
	authH := rest.NewAuthHandler(svcs.auth, log)
	userH := rest.NewUserHandler(svcs.users, log)
	orgH := rest.NewOrganizationHandler(svcs.verification, log)
	adminH := rest.NewAdminHandler(svcs.users, svcs.verification, log)
	donationH := rest.NewDonationHandler(svcs.donations, svcs.users, d.hub,
		func() view.BadgeSource { return svcs.verification.NewBadges() }, log)
	feedH := ws.NewFeedHandler(d.hub, svcs.users,
		func(version uint64) view.BadgeSource { return badgeCache.For(version) },
		middleware.OriginChecker(cfg.CORS), cfg.Feed, log)

	mux := http.NewServeMux()
	handle := func(pattern string, h http.Handler, mws ...middleware.Middleware) {
		mws = append([]middleware.Middleware{middleware.Metrics(d.metrics, pattern)}, mws...)
		mux.Handle(pattern, middleware.Chain(mws...)(h))
	}
	authLimit := d.limiter.Bucket(cfg.RateLimit.Rate, cfg.RateLimit.Burst)

	handle("GET /live", http.HandlerFunc(health.Live))
	handle("GET /ready", http.HandlerFunc(health.Ready))
	handle("GET /health", http.HandlerFunc(health.Health))
	handle("GET /metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{Registry: d.registry}))

	handle("POST /auth/login", http.HandlerFunc(authH.Login), authLimit)
	handle("POST /auth/login/password", http.HandlerFunc(authH.LoginWithPassword), authLimit)
	handle("POST /auth/register", http.HandlerFunc(authH.Register), authLimit)
	handle("POST /auth/refresh", http.HandlerFunc(authH.Refresh), authLimit)
	handle("POST /auth/logout", http.HandlerFunc(authH.Logout))

	handle("GET /api/me", http.HandlerFunc(userH.Me))
	handle("PATCH /api/me", http.HandlerFunc(userH.UpdateMe))
	handle("POST /api/me/role", http.HandlerFunc(userH.SelectRole))

	handle("POST /api/organizations/restaurant", http.HandlerFunc(orgH.RegisterRestaurant))
	handle("POST /api/organizations/ngo", http.HandlerFunc(orgH.RegisterNGO))
	handle("GET /api/organizations/mine", http.HandlerFunc(orgH.Mine))

	handle("GET /api/admin/users", http.HandlerFunc(adminH.ListUsers))
	handle("PUT /api/admin/users/{id}/role", http.HandlerFunc(adminH.SetRole))
	handle("GET /api/admin/verifications", http.HandlerFunc(adminH.PendingVerifications))
	handle("POST /api/admin/verifications/{type}/{id}", http.HandlerFunc(adminH.Verify))

	handle("POST /api/donations", http.HandlerFunc(donationH.Post))
	handle("GET /api/donations/view", http.HandlerFunc(donationH.View))
	handle("GET /api/donations/{id}", http.HandlerFunc(donationH.Get))
	handle("DELETE /api/donations/{id}", http.HandlerFunc(donationH.Delete))
	handle("POST /api/donations/{id}/claim", http.HandlerFunc(donationH.Claim))
	handle("POST /api/donations/{id}/accept", http.HandlerFunc(donationH.Accept))
	handle("POST /api/donations/{id}/pickup", http.HandlerFunc(donationH.Pickup))
	handle("POST /api/donations/{id}/deliver", http.HandlerFunc(donationH.Deliver))
	handle("GET /api/impact", http.HandlerFunc(donationH.Impact))

	handle("GET /ws/feed", feedH)

	return middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.CORS(cfg.CORS),
		middleware.Auth(identityValidator{auth: svcs.auth}),
	)(mux)
}

func healthChecks(st *storage, redisClient *redisadapter.Client) []rest.Check {
	var checks []rest.Check
	if st.pool != nil {
		checks = append(checks, rest.Check{Name: "database", Ping: st.pool.Ping})
	}
	if redisClient != nil {
		checks = append(checks, rest.Check{Name: "redis", Ping: redisClient.Health})
	}
	return checks
}
