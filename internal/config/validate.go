package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.PasswordHashCost < bcrypt.MinCost || c.Auth.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.password_hash_cost must be in [%d, %d] (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.PasswordHashCost)
	}
	if c.Auth.IdentityResolveTimeout <= 0 {
		return fmt.Errorf("auth.identity_resolve_timeout must be > 0 (got %v)", c.Auth.IdentityResolveTimeout)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	if err := c.Safety.validate(); err != nil {
		return fmt.Errorf("safety: %w", err)
	}
	if err := c.Feed.validate(); err != nil {
		return fmt.Errorf("feed: %w", err)
	}

	if c.Marketplace.MaxItemsPerDonation <= 0 {
		return fmt.Errorf("marketplace.max_items_per_donation must be > 0 (got %d)", c.Marketplace.MaxItemsPerDonation)
	}
	if c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit: rate and burst must be > 0")
	}

	return nil
}

func (s *SafetyConfig) validate() error {
	if s.DefaultScore < 0 || s.DefaultScore > 100 {
		return fmt.Errorf("default_score must be in [0, 100] (got %d)", s.DefaultScore)
	}
	if s.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be > 0 (got %d)", s.Concurrency)
	}
	if s.Enabled() && s.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 when api_key is set")
	}
	return nil
}

func (f *FeedConfig) validate() error {
	if f.PingInterval <= 0 {
		return fmt.Errorf("ping_interval must be > 0 (got %v)", f.PingInterval)
	}
	if f.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be > 0 (got %v)", f.WriteTimeout)
	}
	if f.RefreshTimeout <= 0 {
		return fmt.Errorf("refresh_timeout must be > 0 (got %v)", f.RefreshTimeout)
	}
	return nil
}
