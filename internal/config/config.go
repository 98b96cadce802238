// Package config centralizes application configuration loaded from the
// environment, with optional .env file support.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/tessera-labs/admission/internal/env"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Config struct {
	Addr      string `validate:"required"`
	RateLimit RateLimitConfig
	Auth      AuthConfig
}

type RateLimitConfig struct {
	Enabled       bool
	Requests      int64 `validate:"min=1"`
	WindowSeconds int   `validate:"min=1"`
	Shards        int   `validate:"gte=0"`
	SweepSeconds  int   `validate:"gte=0"`
}

type AuthConfig struct {
	Secret   string `validate:"required"`
	Issuer   string `validate:"required"`
	Audience string `validate:"required"`
}

// Window returns the admission window as a duration.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// SweepInterval returns how often idle identities are swept. Zero disables
// the background sweeper.
func (c RateLimitConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepSeconds) * time.Second
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr: env.GetString("ADDR", ":8080"),
		RateLimit: RateLimitConfig{
			Enabled:       env.GetBool("RATE_LIMIT_ENABLED", true),
			Requests:      env.GetInt64("RATE_LIMIT_REQUESTS", 5),
			WindowSeconds: env.GetInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			Shards:        env.GetInt("RATE_LIMIT_SHARDS", 0),
			SweepSeconds:  env.GetInt("RATE_LIMIT_SWEEP_SECONDS", 300),
		},
		Auth: AuthConfig{
			Secret:   env.GetString("AUTH_SECRET", "dev-only-secret"),
			Issuer:   env.GetString("AUTH_ISSUER", "admission-gateway"),
			Audience: env.GetString("AUTH_AUDIENCE", "admission-gateway"),
		},
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
