// Package config loads server configuration from environment variables.
//
// Every knob is an env var with a sensible default, parsed into a single
// struct via the caarlos0/env struct-tag convention. main.go optionally
// loads a .env file first (godotenv), so local development needs no
// exported shell variables.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server needs to start.
type Config struct {
	Port        int    `env:"PORT" envDefault:"8000"`
	DBPath      string `env:"DB_PATH" envDefault:"data/schedule-arranger.db"`
	TemplateDir string `env:"TEMPLATE_DIR" envDefault:"web/templates"`
	StaticDir   string `env:"STATIC_DIR" envDefault:"web/static"`

	// SessionSecret signs the JWT session cookie. Generate with:
	//   SESSION_SECRET=$(openssl rand -hex 32)
	SessionSecret string `env:"SESSION_SECRET"`

	// GitHub OAuth app credentials. Register at
	// https://github.com/settings/developers → "OAuth Apps".
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string `env:"GITHUB_CALLBACK_URL"`
}

// Load parses the environment into a Config and fills derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}

	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	return cfg, nil
}

// Validate checks the parts of the config the server cannot run without.
// Kept separate from Load so tests can build partial configs.
func (c Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("config: SESSION_SECRET is required")
	}
	if c.GitHubClientID == "" || c.GitHubClientSecret == "" {
		return errors.New("config: GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET are required")
	}
	return nil
}
