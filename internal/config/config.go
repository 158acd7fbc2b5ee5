package config

import (
	"slices"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Safety      SafetyConfig      `yaml:"safety"`
	Feed        FeedConfig        `yaml:"feed"`
	Redis       RedisConfig       `yaml:"redis"`
	Marketplace MarketplaceConfig `yaml:"marketplace"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings. An empty DSN runs the
// server on the in-memory donation store.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"true"`
}

// InMemory reports whether no database is configured.
func (c DatabaseConfig) InMemory() bool {
	return c.DSN == ""
}

// AuthConfig holds authentication and OAuth settings.
type AuthConfig struct {
	JWTSecret              string        `yaml:"jwt_secret"               env:"AUTH_JWT_SECRET"               env-required:"true"`
	JWTIssuer              string        `yaml:"jwt_issuer"               env:"AUTH_JWT_ISSUER"               env-default:"foodhelp"`
	AccessTokenTTL         time.Duration `yaml:"access_token_ttl"         env:"AUTH_ACCESS_TOKEN_TTL"         env-default:"15m"`
	RefreshTokenTTL        time.Duration `yaml:"refresh_token_ttl"        env:"AUTH_REFRESH_TOKEN_TTL"        env-default:"720h"`
	GoogleClientID         string        `yaml:"google_client_id"         env:"AUTH_GOOGLE_CLIENT_ID"`
	GoogleClientSecret     string        `yaml:"google_client_secret"     env:"AUTH_GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI      string        `yaml:"google_redirect_uri"      env:"AUTH_GOOGLE_REDIRECT_URI"`
	PasswordHashCost       int           `yaml:"password_hash_cost"       env:"AUTH_PASSWORD_HASH_COST"       env-default:"12"`
	IdentityResolveTimeout time.Duration `yaml:"identity_resolve_timeout" env:"AUTH_IDENTITY_RESOLVE_TIMEOUT" env-default:"2s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds per-IP token bucket settings for the auth endpoints.
type RateLimitConfig struct {
	Rate  float64 `yaml:"rate"  env:"RATE_LIMIT_RATE"  env-default:"5"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"10"`
}

// SafetyConfig holds the food safety scoring client settings. Without an
// API key every item receives DefaultScore.
type SafetyConfig struct {
	APIKey       string        `yaml:"api_key"       env:"SAFETY_API_KEY"`
	BaseURL      string        `yaml:"base_url"      env:"SAFETY_BASE_URL"`
	Model        string        `yaml:"model"         env:"SAFETY_MODEL"         env-default:"claude-haiku-4-5"`
	MaxTokens    int64         `yaml:"max_tokens"    env:"SAFETY_MAX_TOKENS"    env-default:"512"`
	Timeout      time.Duration `yaml:"timeout"       env:"SAFETY_TIMEOUT"       env-default:"8s"`
	DefaultScore int           `yaml:"default_score" env:"SAFETY_DEFAULT_SCORE" env-default:"80"`
	Concurrency  int           `yaml:"concurrency"   env:"SAFETY_CONCURRENCY"   env-default:"4"`
}

// Enabled reports whether the scoring client is configured.
func (c SafetyConfig) Enabled() bool {
	return c.APIKey != ""
}

// FeedConfig holds live feed and WebSocket settings.
type FeedConfig struct {
	RefreshTimeout time.Duration `yaml:"refresh_timeout" env:"FEED_REFRESH_TIMEOUT" env-default:"5s"`
	PingInterval   time.Duration `yaml:"ping_interval"   env:"FEED_PING_INTERVAL"   env-default:"30s"`
	WriteTimeout   time.Duration `yaml:"write_timeout"   env:"FEED_WRITE_TIMEOUT"   env-default:"10s"`
	ReadLimit      int64         `yaml:"read_limit"      env:"FEED_READ_LIMIT"      env-default:"4096"`
}

// RedisConfig holds the optional cross-instance feed notifier settings.
type RedisConfig struct {
	URL     string `yaml:"url"     env:"REDIS_URL"`
	Channel string `yaml:"channel" env:"REDIS_CHANNEL" env-default:"foodhelp:donations"`
}

// Enabled reports whether a Redis URL is configured.
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// MarketplaceConfig holds marketplace policy switches.
type MarketplaceConfig struct {
	RequireVerifiedOrgs bool `yaml:"require_verified_orgs" env:"MARKETPLACE_REQUIRE_VERIFIED_ORGS" env-default:"false"`
	MaxItemsPerDonation int  `yaml:"max_items_per_donation" env:"MARKETPLACE_MAX_ITEMS_PER_DONATION" env-default:"20"`
	// SeedDemo loads the demo marketplace on start when storage is in memory.
	SeedDemo bool `yaml:"seed_demo" env:"MARKETPLACE_SEED_DEMO" env-default:"false"`
}

// AllowedProviders returns the list of configured OAuth providers.
// A provider is considered configured if ALL its required credentials are present.
func (c AuthConfig) AllowedProviders() []string {
	var providers []string
	if c.GoogleClientID != "" && c.GoogleClientSecret != "" {
		providers = append(providers, "google")
	}
	return providers
}

// IsProviderAllowed checks if the given provider string is configured.
func (c AuthConfig) IsProviderAllowed(provider string) bool {
	return slices.Contains(c.AllowedProviders(), provider)
}
