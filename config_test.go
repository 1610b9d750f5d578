package tokenauth

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{name: "defaults with secret", mutate: func(*Config) {}, wantValid: true},
		{name: "missing secret", mutate: func(c *Config) { c.JWT.SecretKey = "  " }, wantValid: false},
		{name: "sub-second access ttl", mutate: func(c *Config) { c.JWT.AccessTTL = time.Millisecond }, wantValid: false},
		{name: "one second access ttl", mutate: func(c *Config) { c.JWT.AccessTTL = time.Second }, wantValid: true},
		{name: "refresh equal to access", mutate: func(c *Config) { c.JWT.RefreshTTL = c.JWT.AccessTTL }, wantValid: false},
		{name: "negative audit buffer", mutate: func(c *Config) { c.Audit.BufferSize = -1 }, wantValid: false},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantValid: false},
		{name: "warn log level", mutate: func(c *Config) { c.Log.Level = "WARN" }, wantValid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantValid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET_KEY", testSecret())
	t.Setenv("JWT_ACCESS_TTL", "1h")
	t.Setenv("JWT_REFRESH_TTL", "72h")
	t.Setenv("AUDIT_ENABLED", "true")
	t.Setenv("METRICS_LATENCY_HISTOGRAMS", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, testSecret(), cfg.JWT.SecretKey)
	assert.Equal(t, time.Hour, cfg.JWT.AccessTTL)
	assert.Equal(t, 72*time.Hour, cfg.JWT.RefreshTTL)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, 1024, cfg.Audit.BufferSize)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Metrics.EnableLatencyHistograms)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET_KEY", testSecret())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	want := DefaultConfig()
	want.JWT.SecretKey = testSecret()
	assert.Equal(t, want, cfg)
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// t.Setenv restores both variables after godotenv populates them.
	for _, name := range []string{"JWT_SECRET_KEY", "JWT_ACCESS_TTL"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	dotenv := "JWT_SECRET_KEY=" + testSecret() + "\nJWT_ACCESS_TTL=30m\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, testSecret(), cfg.JWT.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTTL)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET_KEY", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET_KEY"))

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestConfigRedacted(t *testing.T) {
	cfg := testConfig()
	redacted := cfg.Redacted()

	assert.Equal(t, "[REDACTED]", redacted.JWT.SecretKey)
	assert.Equal(t, testSecret(), cfg.JWT.SecretKey, "receiver must be untouched")
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"Info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}
