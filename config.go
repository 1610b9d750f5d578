package tokenauth

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/travelmate/tokenauth/jwt"
)

// Config is the complete engine configuration. Every field can be populated from the
// environment through [LoadConfig].
type Config struct {
	JWT     JWTConfig     `envPrefix:"JWT_"`
	Audit   AuditConfig   `envPrefix:"AUDIT_"`
	Metrics MetricsConfig `envPrefix:"METRICS_"`
	Log     LogConfig     `envPrefix:"LOG_"`
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig holds the signing secret and token lifetimes.
//
// SecretKey is the base64 encoding of at least 64 random bytes.
type JWTConfig struct {
	SecretKey  string        `env:"SECRET_KEY,required"`
	AccessTTL  time.Duration `env:"ACCESS_TTL" envDefault:"24h"`
	RefreshTTL time.Duration `env:"REFRESH_TTL" envDefault:"360h"`
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool `env:"ENABLED" envDefault:"false"`
	BufferSize int  `env:"BUFFER_SIZE" envDefault:"1024"`
	DropIfFull bool `env:"DROP_IF_FULL" envDefault:"true"`
}

// MetricsConfig toggles counters and the authenticate latency histogram.
type MetricsConfig struct {
	Enabled                 bool `env:"ENABLED" envDefault:"true"`
	EnableLatencyHistograms bool `env:"LATENCY_HISTOGRAMS" envDefault:"false"`
}

// LogConfig sets the minimum level of the boundary logger built by [NewLogger].
type LogConfig struct {
	Level string `env:"LEVEL" envDefault:"info"`
}

// DefaultConfig returns the defaults without a secret. SecretKey must be set before Build.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  jwt.DefaultAccessTTL,
			RefreshTTL: jwt.DefaultRefreshTTL,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads an optional .env file from the working directory and parses the
// environment into a Config. Variables already set in the environment win over .env.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration without decoding the secret; key strength is enforced by
// jwt.NewProvider at Build time.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.SecretKey) == "" {
		return fmt.Errorf("%w: JWT SecretKey is required", ErrInvalidConfig)
	}
	if c.JWT.AccessTTL < time.Second {
		return fmt.Errorf("%w: JWT AccessTTL must be >= 1s", ErrInvalidConfig)
	}
	if c.JWT.RefreshTTL <= c.JWT.AccessTTL {
		return fmt.Errorf("%w: JWT RefreshTTL must be > AccessTTL", ErrInvalidConfig)
	}

	if c.Audit.BufferSize < 0 {
		return fmt.Errorf("%w: Audit BufferSize must be >= 0", ErrInvalidConfig)
	}

	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// Redacted returns a copy of c safe to log.
func (c Config) Redacted() Config {
	if c.JWT.SecretKey != "" {
		c.JWT.SecretKey = "[REDACTED]"
	}
	return c
}

// ParseLogLevel maps debug, info, warn and error (case-insensitive) onto slog levels.
// An empty string means info.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
