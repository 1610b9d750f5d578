package internaldefs

import (
	"github.com/travelmate/tokenauth"
)

// CounterDef names one engine counter.
type CounterDef struct {
	ID   tokenauth.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram.
type HistogramDef struct {
	ID   tokenauth.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter exported for [tokenauth.Engine.AuditDropped].
const (
	AuditDroppedName = "tokenauth_audit_dropped_total"
	AuditDroppedHelp = "Audit events dropped under dispatcher backpressure."

	AuditDroppedByTypeName = "tokenauth_audit_dropped_by_type_total"
	AuditDroppedByTypeHelp = "Audit events dropped under dispatcher backpressure, by event type."
)

var CounterDefs = []CounterDef{
	{ID: tokenauth.MetricIssueSuccess, Name: "tokenauth_issue_success_total", Help: "Token pairs issued."},
	{ID: tokenauth.MetricIssueFailure, Name: "tokenauth_issue_failure_total", Help: "Failed token issuance calls."},
	{ID: tokenauth.MetricAuthenticateSuccess, Name: "tokenauth_authenticate_success_total", Help: "Access tokens authenticated."},
	{ID: tokenauth.MetricValidateSuccess, Name: "tokenauth_validate_success_total", Help: "Tokens that passed validation."},
	{ID: tokenauth.MetricRejectedInvalid, Name: "tokenauth_rejected_invalid_total", Help: "Tokens rejected for a bad signature or structure."},
	{ID: tokenauth.MetricRejectedExpired, Name: "tokenauth_rejected_expired_total", Help: "Tokens rejected as expired."},
	{ID: tokenauth.MetricRejectedUnsupported, Name: "tokenauth_rejected_unsupported_total", Help: "Tokens rejected for an unsupported algorithm."},
	{ID: tokenauth.MetricRejectedEmpty, Name: "tokenauth_rejected_empty_total", Help: "Empty token inputs."},
	{ID: tokenauth.MetricRejectedUnauthorized, Name: "tokenauth_rejected_unauthorized_total", Help: "Verified tokens without an authority claim."},
}

var HistogramDefs = []HistogramDef{
	{ID: tokenauth.MetricAuthenticateLatency, Name: "tokenauth_authenticate_latency_seconds", Help: "Authenticate latency histogram."},
}

// HistogramBounds are the upper bounds, in seconds, of the engine latency buckets.
var HistogramBounds = []string{
	"0.00005",
	"0.0001",
	"0.00025",
	"0.0005",
	"0.001",
	"0.005",
	"0.025",
	"+Inf",
}

// HistogramBoundSuffix is HistogramBounds made safe for instrument names.
var HistogramBoundSuffix = []string{
	"0_00005",
	"0_0001",
	"0_00025",
	"0_0005",
	"0_001",
	"0_005",
	"0_025",
	"inf",
}

// NormalizeBuckets pads or truncates raw to the fixed bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	copy(out[:], raw)
	return out
}

// CumulativeBuckets converts per-bucket counts into the running totals exporters publish.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i, v := range raw {
		running += v
		out[i] = running
	}
	return out
}
