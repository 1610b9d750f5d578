package tokenauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/travelmate/tokenauth/internal/audit"
	"github.com/travelmate/tokenauth/jwt"
)

// Engine issues and verifies tokens and reports every outcome through logs, audit events
// and metrics. Build it with [New] and [Builder.Build].
type Engine struct {
	config   Config
	provider *jwt.Provider
	audit    *audit.Dispatcher
	metrics  *Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// Close flushes pending audit events and stops the dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns how many audit events were dropped under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// AuditDroppedByType breaks AuditDropped down by event type, so a flood of token_rejected
// events can be told apart from lost issuance records.
func (e *Engine) AuditDroppedByType() map[string]uint64 {
	if e == nil || e.audit == nil {
		return map[string]uint64{}
	}
	return e.audit.DroppedByType()
}

// MetricsSnapshot returns a copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// IssueTokens signs a bearer token pair for principalID. The caller is responsible for having
// authenticated the principal beforehand.
func (e *Engine) IssueTokens(ctx context.Context, principalID string) (jwt.TokenPair, error) {
	if e == nil || e.provider == nil {
		return jwt.TokenPair{}, ErrEngineNotReady
	}
	if strings.TrimSpace(principalID) == "" {
		e.metricInc(MetricIssueFailure)
		e.emitAudit(ctx, AuditEventTokenIssued, "", false, ErrInvalidPrincipal.Error())
		return jwt.TokenPair{}, ErrInvalidPrincipal
	}

	pair, err := e.provider.Issue(principalID)
	if err != nil {
		e.metricInc(MetricIssueFailure)
		e.logger.ErrorContext(ctx, "token issuance failed", "principal_id", principalID, "error", err)
		e.emitAudit(ctx, AuditEventTokenIssued, principalID, false, err.Error())
		return jwt.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}

	e.metricInc(MetricIssueSuccess)
	e.emitAudit(ctx, AuditEventTokenIssued, principalID, true, "")
	return pair, nil
}

// Authenticate verifies accessToken and returns the identity it asserts.
//
// Errors are returned unchanged from the jwt package, so callers can branch on
// jwt.KindOf(err) or errors.Is(err, jwt.ErrExpiredToken).
func (e *Engine) Authenticate(ctx context.Context, accessToken string) (*jwt.Identity, error) {
	if e == nil || e.provider == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()
	id, err := e.provider.Authenticate(accessToken)
	e.metrics.Observe(MetricAuthenticateLatency, time.Since(start))
	if err != nil {
		e.reject(ctx, "authenticate", err)
		return nil, err
	}

	e.metricInc(MetricAuthenticateSuccess)
	e.emitAudit(ctx, AuditEventTokenAuthenticated, id.PrincipalID, true, "")
	return id, nil
}

// Validate fully verifies token, including expiry, without requiring an authority claim.
// It returns (true, nil) or (false, err); never false with a nil error.
func (e *Engine) Validate(ctx context.Context, token string) (bool, error) {
	if e == nil || e.provider == nil {
		return false, ErrEngineNotReady
	}

	ok, err := e.provider.Validate(token)
	if err != nil {
		e.reject(ctx, "validate", err)
		return false, err
	}

	e.metricInc(MetricValidateSuccess)
	e.emitAudit(ctx, AuditEventTokenValidated, "", true, "")
	return ok, nil
}

func (e *Engine) reject(ctx context.Context, op string, err error) {
	kind := jwt.KindOf(err)
	if id, ok := rejectionMetric(kind); ok {
		e.metricInc(id)
	}

	attrs := []any{"op", op, "kind", kind.String()}

	var principal string
	if claims := expiredClaims(err); claims != nil {
		principal = claims.Subject
		if principal != "" {
			attrs = append(attrs, "principal_id", principal)
		}
	}

	e.logger.InfoContext(ctx, rejectionMessage(kind), append(attrs, "error", err)...)
	e.emitAudit(ctx, AuditEventTokenRejected, principal, false, kind.String())
}

func rejectionMessage(kind jwt.ErrorKind) string {
	switch kind {
	case jwt.KindInvalidToken:
		return "invalid token"
	case jwt.KindExpiredToken:
		return "expired token"
	case jwt.KindUnsupportedToken:
		return "unsupported token"
	case jwt.KindEmptyClaims:
		return "token claims string is empty"
	case jwt.KindUnauthorized:
		return "token has no authority"
	default:
		return "token rejected"
	}
}

func expiredClaims(err error) *jwt.AccessClaims {
	var te *jwt.Error
	if !errors.As(err, &te) || te.Kind != jwt.KindExpiredToken {
		return nil
	}
	return te.Claims
}

func (e *Engine) emitAudit(ctx context.Context, eventType, principalID string, success bool, errCode string) {
	if e == nil || e.audit == nil {
		return
	}

	event := audit.NewEvent(eventType, e.now())
	event.PrincipalID = principalID
	info := RequestInfoFromContext(ctx)
	event.IP = info.ClientIP
	event.UserAgent = info.UserAgent
	event.Success = success
	event.Error = errCode

	e.audit.Emit(ctx, event)
}
