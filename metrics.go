package tokenauth

import (
	"sync/atomic"
	"time"

	"github.com/travelmate/tokenauth/jwt"
)

// MetricID identifies one engine counter or histogram.
type MetricID uint16

const (
	// MetricIssueSuccess counts token pairs issued.
	MetricIssueSuccess MetricID = iota
	// MetricIssueFailure counts IssueTokens calls that returned an error.
	MetricIssueFailure
	// MetricAuthenticateSuccess counts identities returned by Authenticate.
	MetricAuthenticateSuccess
	// MetricValidateSuccess counts successful Validate calls.
	MetricValidateSuccess
	// MetricRejectedInvalid counts tokens rejected as invalid (signature or structure).
	MetricRejectedInvalid
	// MetricRejectedExpired counts expired tokens.
	MetricRejectedExpired
	// MetricRejectedUnsupported counts tokens with an unsupported algorithm.
	MetricRejectedUnsupported
	// MetricRejectedEmpty counts empty token inputs.
	MetricRejectedEmpty
	// MetricRejectedUnauthorized counts verified tokens lacking the authority claim.
	MetricRejectedUnauthorized
	// MetricAuthenticateLatency is the Authenticate latency histogram.
	MetricAuthenticateLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds cache-line padded atomic counters and the latency histogram.
// All methods are nil-safe and allocation-free on the write path.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of every counter and histogram.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a Metrics instance for cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the latency histogram is recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to counter id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d into the histogram for id. Only MetricAuthenticateLatency has buckets.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricAuthenticateLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns the current value of counter id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters, and the histogram when latency recording is on.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if id == MetricAuthenticateLatency {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricAuthenticateLatency].buckets[i])
		}
		s.Histograms[MetricAuthenticateLatency] = buckets
	}

	return s
}

// rejectionMetric maps a token error kind onto its rejection counter.
func rejectionMetric(kind jwt.ErrorKind) (MetricID, bool) {
	switch kind {
	case jwt.KindInvalidToken:
		return MetricRejectedInvalid, true
	case jwt.KindExpiredToken:
		return MetricRejectedExpired, true
	case jwt.KindUnsupportedToken:
		return MetricRejectedUnsupported, true
	case jwt.KindEmptyClaims:
		return MetricRejectedEmpty, true
	case jwt.KindUnauthorized:
		return MetricRejectedUnauthorized, true
	default:
		return 0, false
	}
}

// Token verification completes in microseconds, so the lower buckets are fine-grained.
func bucketIndex(d time.Duration) int {
	us := d.Microseconds()

	switch {
	case us <= 50:
		return 0
	case us <= 100:
		return 1
	case us <= 250:
		return 2
	case us <= 500:
		return 3
	case us <= 1000:
		return 4
	case us <= 5000:
		return 5
	case us <= 25000:
		return 6
	default:
		return 7
	}
}
