// Package config loads gote settings from an optional settings file and the
// environment. Environment variables use the GOTE_ prefix and win over the file.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/miyatoshi624/gote/client"
	"github.com/miyatoshi624/gote/devmode"
)

// Config holds the client configuration.
// Example: GOTE_SUPABASE_URL, GOTE_SQLITE_PATH, GOTE_SESSION_TTL=30m
type Config struct {
	// Driver selects the backend: auto, supabase, sqlite, postgres or memory.
	Driver string `envconfig:"DRIVER" default:"auto"`

	// Hosted backend
	SupabaseURL  string `envconfig:"SUPABASE_URL"`
	SupabaseKey  string `envconfig:"SUPABASE_KEY"`
	AccountEmail string `envconfig:"ACCOUNT_EMAIL"`

	// Local drivers
	SQLitePath  string        `envconfig:"SQLITE_PATH" default:"./data/gote.db"`
	PostgresDSN string        `envconfig:"POSTGRES_DSN"`
	TokenSecret string        `envconfig:"TOKEN_SECRET"`
	SessionTTL  time.Duration `envconfig:"SESSION_TTL" default:"1h"`

	TimeZone    string        `envconfig:"TIMEZONE" default:"Asia/Tokyo"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	Debug       bool          `envconfig:"DEBUG" default:"false"`
}

// New parses the environment only.
func New() (*Config, error) {
	return Load("")
}

// Load reads the settings file at path (skipped when path is empty), overlays
// the environment and resolves defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		fs, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.SupabaseURL = fs.URL
		cfg.SupabaseKey = fs.Key
		cfg.AccountEmail = fs.Email
	}

	// Fields without a default keep the file value when the variable is unset.
	if err := envconfig.Process("GOTE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("driver", cfg.Driver).
		Str("supabase_url", cfg.SupabaseURL).
		Bool("supabase_key_present", cfg.SupabaseKey != "").
		Str("account_email", cfg.AccountEmail).
		Str("sqlite_path", cfg.SQLitePath).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Str("timezone", cfg.TimeZone).
		Dur("session_ttl", cfg.SessionTTL).
		Str("log_level", cfg.LogLevel).
		Msg("Configuration loaded")

	return &cfg, nil
}

// ResolveDefaults derives Driver when set to "auto" or empty and validates
// what the chosen driver needs.
func (c *Config) ResolveDefaults() error {
	if c.Driver == "" || c.Driver == client.DriverAuto {
		if c.SupabaseURL != "" {
			c.Driver = client.DriverSupabase
		} else {
			c.Driver = client.DriverSQLite
		}
	}

	switch c.Driver {
	case client.DriverSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("supabase driver needs SUPABASE_URL and SUPABASE_KEY")
		}
	case client.DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite driver needs SQLITE_PATH")
		}
	case client.DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres driver needs POSTGRES_DSN")
		}
	case client.DriverMemory:
	default:
		return fmt.Errorf("unsupported DRIVER: %s", c.Driver)
	}

	if c.Driver != client.DriverSupabase && c.TokenSecret == "" {
		log.Warn().Str("driver", c.Driver).Msg("TOKEN_SECRET not set, using the development secret")
		c.TokenSecret = devmode.TokenSecret
	}
	if c.Driver != client.DriverSupabase && c.AccountEmail == "" {
		c.AccountEmail = devmode.AccountEmail
	}

	if c.TimeZone == "" {
		c.TimeZone = client.DefaultTimeZone
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("unsupported TIMEZONE %q: %w", c.TimeZone, err)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// Settings maps the configuration onto client settings.
func (c *Config) Settings() client.Settings {
	return client.Settings{
		BackendURL:   c.SupabaseURL,
		BackendKey:   c.SupabaseKey,
		AccountEmail: c.AccountEmail,
		Driver:       c.Driver,
		SQLitePath:   c.SQLitePath,
		PostgresDSN:  c.PostgresDSN,
		TokenSecret:  c.TokenSecret,
		SessionTTL:   c.SessionTTL,
		TimeZone:     c.TimeZone,
	}
}

// NewForTesting returns an in-memory configuration.
func NewForTesting() *Config {
	return &Config{
		Driver:       client.DriverMemory,
		AccountEmail: devmode.AccountEmail,
		TokenSecret:  devmode.TokenSecret,
		SessionTTL:   time.Hour,
		TimeZone:     client.DefaultTimeZone,
		HTTPTimeout:  30 * time.Second,
		LogLevel:     "info",
	}
}
