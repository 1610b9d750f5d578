package tokenauth

import (
	"github.com/travelmate/tokenauth/internal"
	"github.com/travelmate/tokenauth/internal/security"
)

// SecurityReport is a read-only snapshot of the engine's security posture. It never contains
// key material.
type SecurityReport = security.Report

// SecurityReport describes the signing setup and the reporting pipeline of e.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil || e.provider == nil {
		return SecurityReport{}
	}

	return security.BuildReport(security.ReportInput{
		SigningAlgorithm:  e.provider.Algorithm(),
		KeyBits:           e.provider.KeyBits(),
		AccessTTL:         e.provider.AccessTTL(),
		RefreshTTL:        e.provider.RefreshTTL(),
		AuditEnabled:      e.audit != nil,
		AuditDropIfFull:   e.config.Audit.DropIfFull,
		MetricsEnabled:    e.metrics.Enabled(),
		LatencyHistograms: e.metrics.LatencyEnabled(),
	})
}

// GenerateSecretKey returns a fresh random 512-bit key, base64 encoded for JWT_SECRET_KEY.
func GenerateSecretKey() (string, error) {
	key, err := internal.NewSigningKey()
	if err != nil {
		return "", err
	}
	return internal.EncodeSigningKey(key)
}
