// Package config loads application configuration from environment
// variables, with an optional .env file picked up from the working
// directory on first use.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all client configuration.
type Config struct {
	// APIBaseURL is the base URL of the posting backend.
	APIBaseURL string `env:"BIRDDECK_API_URL" envDefault:"http://localhost:8000"`

	// APITimeout bounds every remote call.
	APITimeout time.Duration `env:"BIRDDECK_API_TIMEOUT" envDefault:"10s"`

	// StateDir holds persisted client state (accounts, session token).
	// Defaults to ~/.birddeck when empty.
	StateDir string `env:"BIRDDECK_STATE_DIR"`

	// CacheDir backs the HTTP response cache. Empty means in-memory only.
	CacheDir string `env:"BIRDDECK_CACHE_DIR"`

	// OAuth settings for linking a posting account.
	OAuthClientID    string `env:"BIRDDECK_OAUTH_CLIENT_ID"`
	OAuthCallbackURL string `env:"BIRDDECK_OAUTH_CALLBACK_URL" envDefault:"http://localhost:8000/auth/twitter"`
}

var loadEnvOnce sync.Once

// Load parses configuration from the environment. A missing home
// directory is only an error when no explicit state dir is set.
func Load() (Config, error) {
	loadEnvOnce.Do(func() {
		// Missing .env is fine, values come from the environment.
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("failed to get home directory: %w", err)
		}
		cfg.StateDir = filepath.Join(home, ".birddeck")
	}

	return cfg, nil
}
