package prometheus

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/travelmate/tokenauth"
)

type fakeSource struct {
	snapshot tokenauth.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() tokenauth.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                       { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: tokenauth.MetricsSnapshot{
			Counters:   map[tokenauth.MetricID]uint64{},
			Histograms: map[tokenauth.MetricID][]uint64{},
		},
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderIncludesCountersAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: tokenauth.MetricsSnapshot{
			Counters: map[tokenauth.MetricID]uint64{
				tokenauth.MetricIssueSuccess:    7,
				tokenauth.MetricRejectedExpired: 2,
			},
			Histograms: map[tokenauth.MetricID][]uint64{
				tokenauth.MetricAuthenticateLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	for _, want := range []string{
		"# TYPE tokenauth_issue_success_total counter\n",
		"tokenauth_issue_success_total 7\n",
		"tokenauth_rejected_expired_total 2\n",
		"tokenauth_rejected_invalid_total 0\n",
		`tokenauth_authenticate_latency_seconds_bucket{le="0.00005"} 1`,
		`tokenauth_authenticate_latency_seconds_bucket{le="+Inf"} 36`,
		"tokenauth_authenticate_latency_seconds_count 36\n",
		"tokenauth_authenticate_latency_seconds_sum 0\n",
		"tokenauth_audit_dropped_total 2\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

type typedDropSource struct {
	fakeSource
	byType map[string]uint64
}

func (f typedDropSource) AuditDroppedByType() map[string]uint64 { return f.byType }

func TestRenderBreaksDownDropsByEventType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(typedDropSource{
		fakeSource: fakeSource{dropped: 5},
		byType: map[string]uint64{
			tokenauth.AuditEventTokenRejected:      4,
			tokenauth.AuditEventTokenAuthenticated: 1,
		},
	})

	out := exp.Render()
	authenticated := `tokenauth_audit_dropped_by_type_total{event_type="token_authenticated"} 1` + "\n"
	rejected := `tokenauth_audit_dropped_by_type_total{event_type="token_rejected"} 4` + "\n"
	for _, want := range []string{
		"# TYPE tokenauth_audit_dropped_by_type_total counter\n",
		authenticated,
		rejected,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
	if strings.Index(out, authenticated) > strings.Index(out, rejected) {
		t.Fatalf("expected event types in sorted order, got:\n%s", out)
	}
}

func TestRenderOmitsDropsByTypeWhenNoneDropped(t *testing.T) {
	exp := NewPrometheusExporterFromSource(typedDropSource{
		fakeSource: fakeSource{dropped: 1},
		byType:     map[string]uint64{},
	})

	if out := exp.Render(); strings.Contains(out, "tokenauth_audit_dropped_by_type_total") {
		t.Fatalf("expected no per-type family, got:\n%s", out)
	}
}

func TestRenderOmitsHistogramWhenLatencyDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: tokenauth.MetricsSnapshot{
			Counters:   map[tokenauth.MetricID]uint64{tokenauth.MetricIssueSuccess: 1},
			Histograms: map[tokenauth.MetricID][]uint64{},
		},
	})

	if out := exp.Render(); strings.Contains(out, "latency") {
		t.Fatalf("expected no histogram, got:\n%s", out)
	}
}

func TestHandlerServesEngineMetrics(t *testing.T) {
	key := make([]byte, 64)
	engine, err := tokenauth.New().WithSecretKey(base64.StdEncoding.EncodeToString(key)).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := engine.IssueTokens(context.Background(), "u1"); err != nil {
		t.Fatalf("IssueTokens failed: %v", err)
	}
	_, _ = engine.Authenticate(context.Background(), "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	NewPrometheusExporter(engine).Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "tokenauth_issue_success_total 1\n") || !strings.Contains(body, "tokenauth_rejected_empty_total 1\n") {
		t.Fatalf("unexpected body:\n%s", body)
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: tokenauth.MetricsSnapshot{
			Counters: map[tokenauth.MetricID]uint64{
				tokenauth.MetricIssueSuccess:        1000,
				tokenauth.MetricAuthenticateSuccess: 40000,
				tokenauth.MetricRejectedInvalid:     12,
				tokenauth.MetricRejectedExpired:     300,
			},
			Histograms: map[tokenauth.MetricID][]uint64{
				tokenauth.MetricAuthenticateLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
	})

	b.ReportAllocs()
	for b.Loop() {
		_ = exp.Render()
	}
}
