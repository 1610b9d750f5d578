package tokenauth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/travelmate/tokenauth/internal/audit"
	"github.com/travelmate/tokenauth/jwt"
)

// Builder assembles an [Engine]. A Builder can be built once.
type Builder struct {
	config    Config
	auditSink AuditSink
	logger    *slog.Logger
	now       func() time.Time

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithSecretKey sets the base64 signing secret.
func (b *Builder) WithSecretKey(secretKeyBase64 string) *Builder {
	b.config.JWT.SecretKey = secretKeyBase64
	return b
}

// WithAuditSink sets the sink used when auditing is enabled. Without one, events go to the
// engine logger.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the boundary logger. The default discards everything.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetricsEnabled toggles the engine counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the authenticate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithClock replaces time.Now for token timestamps and audit events.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the configuration, derives the signing key and starts the audit
// dispatcher when enabled.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	provider, err := jwt.NewProvider(
		cfg.JWT.SecretKey,
		jwt.WithAccessTTL(cfg.JWT.AccessTTL),
		jwt.WithRefreshTTL(cfg.JWT.RefreshTTL),
		jwt.WithClock(now),
	)
	if err != nil {
		return nil, fmt.Errorf("jwt provider: %w", err)
	}

	logger := b.logger
	if logger == nil {
		logger = discardLogger()
	}

	sink := b.auditSink
	if sink == nil {
		sink = audit.NewSlogSink(logger)
	}

	b.built = true

	return &Engine{
		config:   cfg,
		provider: provider,
		metrics:  NewMetrics(cfg.Metrics),
		audit: audit.NewDispatcher(audit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, sink),
		logger: logger,
		now:    now,
	}, nil
}
