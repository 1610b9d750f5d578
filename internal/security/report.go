package security

import "time"

// RecommendedKeyBits is the HS512 key size below which the report flags the key.
const RecommendedKeyBits = 512

// Report summarises the security-relevant settings of a built engine.
type Report struct {
	SigningAlgorithm    string
	KeyBits             int
	KeyStrengthOK       bool
	AccessTTL           time.Duration
	RefreshTTL          time.Duration
	RefreshToAccessRate float64
	AuditEnabled        bool
	AuditMayDropEvents  bool
	MetricsEnabled      bool
	LatencyHistograms   bool
}

// ReportInput carries the raw settings BuildReport derives a Report from.
type ReportInput struct {
	SigningAlgorithm  string
	KeyBits           int
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	AuditEnabled      bool
	AuditDropIfFull   bool
	MetricsEnabled    bool
	LatencyHistograms bool
}

// BuildReport flags keys under RecommendedKeyBits, computes the refresh to access
// lifetime ratio, and notes whether audit events can be dropped under load.
func BuildReport(input ReportInput) Report {
	var ratio float64
	if input.AccessTTL > 0 {
		ratio = float64(input.RefreshTTL) / float64(input.AccessTTL)
	}

	return Report{
		SigningAlgorithm:    input.SigningAlgorithm,
		KeyBits:             input.KeyBits,
		KeyStrengthOK:       input.KeyBits >= RecommendedKeyBits,
		AccessTTL:           input.AccessTTL,
		RefreshTTL:          input.RefreshTTL,
		RefreshToAccessRate: ratio,
		AuditEnabled:        input.AuditEnabled,
		AuditMayDropEvents:  input.AuditEnabled && input.AuditDropIfFull,
		MetricsEnabled:      input.MetricsEnabled,
		LatencyHistograms:   input.MetricsEnabled && input.LatencyHistograms,
	}
}
