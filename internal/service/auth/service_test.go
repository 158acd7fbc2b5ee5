package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saifff-551/foodhelp/internal/adapter/memory"
	"github.com/Saifff-551/foodhelp/internal/auth"
	"github.com/Saifff-551/foodhelp/internal/config"
	"github.com/Saifff-551/foodhelp/internal/domain"
	"github.com/Saifff-551/foodhelp/pkg/ctxutil"
)

//go:generate moq -out oauth_verifier_mock_test.go -pkg auth . oauthVerifier
//go:generate moq -out jwt_manager_mock_test.go -pkg auth . jwtManager

const testSecret = "test-secret-that-is-at-least-32-chars"

// defaultCfg returns a config suitable for most tests.
func defaultCfg() config.AuthConfig {
	return config.AuthConfig{
		GoogleClientID:         "google_client_id",
		GoogleClientSecret:     "google_client_secret",
		RefreshTokenTTL:        30 * 24 * time.Hour,
		PasswordHashCost:       4, // minimum cost for fast tests
		IdentityResolveTimeout: time.Second,
	}
}

type testEnv struct {
	svc         *Service
	users       *memory.UserStore
	tokens      *memory.TokenStore
	authMethods *memory.AuthMethodStore
	oauth       *oauthVerifierMock
	jwt         *auth.JWTManager
}

func newTestEnv(t *testing.T, cfg config.AuthConfig) *testEnv {
	t.Helper()

	env := &testEnv{
		users:       memory.NewUserStore(),
		tokens:      memory.NewTokenStore(),
		authMethods: memory.NewAuthMethodStore(),
		oauth:       &oauthVerifierMock{},
		jwt:         auth.NewJWTManager(testSecret, "foodhelp", 15*time.Minute),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	env.svc = NewService(logger, env.users, env.tokens, env.authMethods, memory.TxManager{}, env.oauth, env.jwt, cfg)
	return env
}

func ptrString(s string) *string { return &s }

// ─── OAuth Login Tests ──────────────────────────────────────────────────────

func TestService_Login_NewUserIsPending(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, defaultCfg())
	env.oauth.VerifyCodeFunc = func(ctx context.Context, provider, code string) (*auth.OAuthIdentity, error) {
		assert.Equal(t, "google", provider)
		assert.Equal(t, "auth_code_123", code)
		return &auth.OAuthIdentity{
			ProviderID: "google_123",
			Email:      "Test@Example.com",
			Name:       ptrString("Test User"),
			AvatarURL:  ptrString("https://example.com/avatar.jpg"),
		}, nil
	}

	result, err := env.svc.Login(context.Background(), LoginInput{Provider: "google", Code: "auth_code_123"})
	require.NoError(t, err)
	require.NotNil(t, result.User)

	assert.Equal(t, "test@example.com", result.User.Email)
	assert.Equal(t, "Test User", result.User.Name)
	assert.Equal(t, domain.UserRolePending, result.User.Role)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	_, role, err := env.jwt.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", role)

	am, err := env.authMethods.GetByOAuth(context.Background(), domain.AuthMethodGoogle, "google_123")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, am.UserID)
}

func TestService_Login_ExistingUserUpdatesProfile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, defaultCfg())
	name := "Old Name"
	env.oauth.VerifyCodeFunc = func(ctx context.Context, provider, code string) (*auth.OAuthIdentity, error) {
		return &auth.OAuthIdentity{ProviderID: "google_1", Email: "a@example.com", Name: ptrString(name)}, nil
	}

	first, err := env.svc.Login(context.Background(), LoginInput{Provider: "google", Code: "c1"})
	require.NoError(t, err)

	_, err = env.users.AssignRoleIfPending(context.Background(), first.User.ID, domain.UserRoleDonor)
	require.NoError(t, err)

	name = "New Name"
	second, err := env.svc.Login(context.Background(), LoginInput{Provider: "google", Code: "c2"})
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, "New Name", second.User.Name)
	assert.Equal(t, domain.UserRoleDonor, second.User.Role)
	assert.Len(t, env.oauth.VerifyCodeCalls(), 2)
}

func TestService_Login_LinksExistingPasswordAccount(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, defaultCfg())
	registered, err := env.svc.Register(context.Background(), RegisterInput{
		Email: "donor@example.com", Name: "Daily Bread", Password: "password123",
	})
	require.NoError(t, err)

	env.oauth.VerifyCodeFunc = func(ctx context.Context, provider, code string) (*auth.OAuthIdentity, error) {
		return &auth.OAuthIdentity{ProviderID: "google_9", Email: "donor@example.com"}, nil
	}

	result, err := env.svc.Login(context.Background(), LoginInput{Provider: "google", Code: "code"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)

	methods, err := env.authMethods.ListByUser(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.Len(t, methods, 2)
}

func TestService_Login_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input LoginInput
		field string
	}{
		{"missing provider", LoginInput{Code: "c"}, "provider"},
		{"unsupported provider", LoginInput{Provider: "apple", Code: "c"}, "provider"},
		{"missing code", LoginInput{Provider: "google"}, "code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, defaultCfg())
			_, err := env.svc.Login(context.Background(), tt.input)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Errors[0].Field)
			assert.Empty(t, env.oauth.VerifyCodeCalls())
		})
	}
}

func TestService_Login_OAuthVerificationFailed(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, defaultCfg())
	providerErr := errors.New("provider down")
	env.oauth.VerifyCodeFunc = func(ctx context.Context, provider, code string) (*auth.OAuthIdentity, error) {
		return nil, providerErr
	}

	_, err := env.svc.Login(context.Background(), LoginInput{Provider: "google", Code: "c"})
	assert.ErrorIs(t, err, providerErr)
}

// ─── Password Tests ─────────────────────────────────────────────────────────

func TestService_Register_And_LoginWithPassword(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, defaultCfg())

	reg, err := env.svc.Register(context.Background(), RegisterInput{
		Email: "  Hope@Shelter.org ", Name: "Hope Shelter", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "hope@shelter.org", reg.User.Email)
	assert.Equal(t, domain.UserRolePending, reg.User.Role)

	login, err := env.svc.LoginWithPassword(context.Background(), LoginPasswordInput{
		Email: "hope@shelter.org", Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	_, err = env.svc.LoginWithPassword(context.Background(), LoginPasswordInput{
		Email: "hope@shelter.org", Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = env.svc.LoginWithPassword(context.Background(), LoginPasswordInput{
		Email: "nobody@shelter.org", Password: "password123",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_Register_EmailAlreadyTaken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, defaultCfg())
	input := RegisterInput{Email: "a@example.com", Name: "Someone", Password: "password123"}

	_, err := env.svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = env.svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestService_Register_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{"empty email", RegisterInput{Name: "user", Password: "password123"}, "email"},
		{"invalid email", RegisterInput{Email: "notanemail", Name: "user", Password: "password123"}, "email"},
		{"empty name", RegisterInput{Email: "a@b.com", Password: "password123"}, "name"},
		{"short name", RegisterInput{Email: "a@b.com", Name: "a", Password: "password123"}, "name"},
		{"empty password", RegisterInput{Email: "a@b.com", Name: "user"}, "password"},
		{"short password", RegisterInput{Email: "a@b.com", Name: "user", Password: "short"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, defaultCfg())
			_, err := env.svc.Register(context.Background(), tt.input)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Errors, 1)
			assert.Equal(t, tt.field, verr.Errors[0].Field)
		})
	}
}

func TestService_LoginWithPassword_OAuthOnlyAccount(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, defaultCfg())
	env.oauth.VerifyCodeFunc = func(ctx context.Context, provider, code string) (*auth.OAuthIdentity, error) {
		return &auth.OAuthIdentity{ProviderID: "g", Email: "oauth@example.com"}, nil
	}
	_, err := env.svc.Login(context.Background(), LoginInput{Provider: "google", Code: "c"})
	require.NoError(t, err)

	_, err = env.svc.LoginWithPassword(context.Background(), LoginPasswordInput{
		Email: "oauth@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ─── Refresh / Logout Tests ─────────────────────────────────────────────────

func TestService_Refresh_RotatesAndDetectsReuse(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, defaultCfg())
	reg, err := env.svc.Register(context.Background(), RegisterInput{
		Email: "a@example.com", Name: "Someone", Password: "password123",
	})
	require.NoError(t, err)

	rotated, err := env.svc.Refresh(context.Background(), RefreshInput{RefreshToken: reg.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, reg.User.ID, rotated.User.ID)

	_, err = env.svc.Refresh(context.Background(), RefreshInput{RefreshToken: reg.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = env.svc.Refresh(context.Background(), RefreshInput{RefreshToken: rotated.RefreshToken})
	require.NoError(t, err)
}

func TestService_Refresh_ValidationErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, defaultCfg())

	_, err := env.svc.Refresh(context.Background(), RefreshInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	long := make([]byte, 513)
	for i := range long {
		long[i] = 'a'
	}
	_, err = env.svc.Refresh(context.Background(), RefreshInput{RefreshToken: string(long)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_Logout(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, defaultCfg())
	reg, err := env.svc.Register(context.Background(), RegisterInput{
		Email: "a@example.com", Name: "Someone", Password: "password123",
	})
	require.NoError(t, err)

	err = env.svc.Logout(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, env.svc.Logout(ctxutil.WithUserID(context.Background(), reg.User.ID)))

	_, err = env.svc.Refresh(context.Background(), RefreshInput{RefreshToken: reg.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_CleanupExpiredTokens(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, defaultCfg())
	userID := uuid.New()
	require.NoError(t, env.tokens.Create(context.Background(), &domain.RefreshToken{
		UserID: userID, TokenHash: "expired", ExpiresAt: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, env.tokens.Create(context.Background(), &domain.RefreshToken{
		UserID: userID, TokenHash: "active", ExpiresAt: time.Now().Add(time.Hour),
	}))

	n, err := env.svc.CleanupExpiredTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// ─── Token / Identity Tests ─────────────────────────────────────────────────

func TestService_ValidateToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	jwtMock := &jwtManagerMock{
		ValidateAccessTokenFunc: func(token string) (uuid.UUID, string, error) {
			if token == "good" {
				return userID, "DONOR", nil
			}
			return uuid.Nil, "", errors.New("bad token")
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, memory.NewUserStore(), memory.NewTokenStore(), memory.NewAuthMethodStore(),
		memory.TxManager{}, &oauthVerifierMock{}, jwtMock, defaultCfg())

	id, role, err := svc.ValidateToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, userID, id)
	assert.Equal(t, "DONOR", role)

	_, _, err = svc.ValidateToken(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Len(t, jwtMock.ValidateAccessTokenCalls(), 2)
}

func TestService_ResolveIdentity_UsesStoredRole(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, defaultCfg())
	reg, err := env.svc.Register(context.Background(), RegisterInput{
		Email: "a@example.com", Name: "Someone", Password: "password123",
	})
	require.NoError(t, err)

	// The token still says PENDING after onboarding.
	_, err = env.users.AssignRoleIfPending(context.Background(), reg.User.ID, domain.UserRoleRescuer)
	require.NoError(t, err)

	u, err := env.svc.ResolveIdentity(context.Background(), reg.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleRescuer, u.Role)

	_, err = env.svc.ResolveIdentity(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_ResolveIdentity_DeletedUser(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, defaultCfg())
	token, err := env.jwt.GenerateAccessToken(uuid.New(), "DONOR")
	require.NoError(t, err)

	_, err = env.svc.ResolveIdentity(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// stalledUsers never answers before the context ends.
type stalledUsers struct {
	*memory.UserStore
}

func (s stalledUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestService_ResolveIdentity_TimeoutMeansUnauthenticated(t *testing.T) {
	t.Parallel()

	cfg := defaultCfg()
	cfg.IdentityResolveTimeout = 20 * time.Millisecond
	jwt := auth.NewJWTManager(testSecret, "foodhelp", time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, stalledUsers{memory.NewUserStore()}, memory.NewTokenStore(), memory.NewAuthMethodStore(),
		memory.TxManager{}, &oauthVerifierMock{}, jwt, cfg)

	token, err := jwt.GenerateAccessToken(uuid.New(), "DONOR")
	require.NoError(t, err)

	start := time.Now()
	_, err = svc.ResolveIdentity(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Less(t, time.Since(start), time.Second)
}
