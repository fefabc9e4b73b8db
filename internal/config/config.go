package config

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment; a .env file is loaded first by the
// entrypoints via godotenv.
type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	GinMode       string        `env:"GIN_MODE"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty     bool          `env:"LOG_PRETTY"`
	DBPath        string        `env:"DB_PATH" envDefault:"portfolio.db"`
	ContentPath   string        `env:"CONTENT_PATH"`
	TemplatesGlob string        `env:"TEMPLATES_GLOB" envDefault:"templates/*"`
	ToggleKey     string        `env:"TOGGLE_KEY" envDefault:"q"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	SMTP  SMTP
	Admin Admin
}

type SMTP struct {
	Host    string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port    string `env:"SMTP_PORT" envDefault:"587"`
	User    string `env:"SMTP_USER"`
	Pass    string `env:"SMTP_PASS"`
	ToEmail string `env:"TO_EMAIL"`
}

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

type Admin struct {
	Username string `env:"ADMIN_USERNAME" envDefault:"admin"`
	Password string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
}

// UsingDefaults reports whether either credential is still the shipped default.
func (a Admin) UsingDefaults() bool {
	return a.Username == defaultAdminUsername || a.Password == defaultAdminPassword
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(cfg.ToggleKey) != 1 {
		return nil, fmt.Errorf("TOGGLE_KEY must be a single character, got %q", cfg.ToggleKey)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	return &cfg, nil
}

// Toggle returns the toggle key as a rune.
func (c *Config) Toggle() rune {
	r, _ := utf8.DecodeRuneInString(c.ToggleKey)
	return r
}

// Release reports whether gin runs in release mode.
func (c *Config) Release() bool {
	return c.GinMode == "release"
}

// AdminEnabled reports whether the admin routes may be served. Release
// builds refuse the default credentials.
func (c *Config) AdminEnabled() bool {
	return !c.Release() || !c.Admin.UsingDefaults()
}

// Addr is the listen address for the web server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
