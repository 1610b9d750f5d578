package tokenauth

import (
	"io"
	"log/slog"

	"github.com/travelmate/tokenauth/internal/audit"
)

// AuditEvent is one structured record emitted by the Engine.
type AuditEvent = audit.Event

// AuditSink receives audit events from the dispatcher goroutine.
type AuditSink = audit.Sink

// NoOpSink drops every event.
type NoOpSink = audit.NoOpSink

const (
	AuditEventTokenIssued        = "token_issued"
	AuditEventTokenAuthenticated = "token_authenticated"
	AuditEventTokenValidated     = "token_validated"
	AuditEventTokenRejected      = "token_rejected"
)

// NewChannelSink returns a sink that buffers events in a channel, mostly useful in tests.
func NewChannelSink(buffer int) *audit.ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a sink writing one JSON object per line to w.
func NewJSONWriterSink(w io.Writer) *audit.JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

// NewSlogSink returns a sink logging each event through logger.
func NewSlogSink(logger *slog.Logger) *audit.SlogSink {
	return audit.NewSlogSink(logger)
}
