package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/travelmate/tokenauth"
	"github.com/travelmate/tokenauth/jwt"
)

type issued struct {
	principal string
	pair      jwt.TokenPair
}

func main() {
	var (
		principals  = flag.Int("principals", 10000, "number of distinct principals to issue tokens for")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "authenticate operations")
		secret      = flag.String("secret", "", "base64 signing secret; if empty, JWT_SECRET_KEY env or a random key is used")
	)
	flag.Parse()

	if *principals <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "principals, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	key := *secret
	if key == "" {
		key = os.Getenv("JWT_SECRET_KEY")
	}
	if key == "" {
		generated, err := tokenauth.GenerateSecretKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate key: %v\n", err)
			os.Exit(1)
		}
		key = generated
		fmt.Println("using a random signing key")
	}

	engine, err := tokenauth.New().
		WithSecretKey(key).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	ctx := context.Background()

	tokens := make([]issued, *principals)
	issueStats := runPhase(*principals, *concurrency, func(i, _ int) error {
		principal := uuid.NewString()
		pair, err := engine.IssueTokens(ctx, principal)
		if err != nil {
			return err
		}
		tokens[i] = issued{principal: principal, pair: pair}
		return nil
	})

	var mismatches int64
	authStats := runPhase(*ops, *concurrency, func(i, worker int) error {
		tok := tokens[(i*31+worker)%len(tokens)]
		id, err := engine.Authenticate(ctx, tok.pair.AccessToken)
		if err != nil {
			return err
		}
		if id.PrincipalID != tok.principal {
			atomic.AddInt64(&mismatches, 1)
		}
		return nil
	})

	fmt.Println("---- results ----")
	printStats("issue", issueStats)
	printStats("authenticate", authStats)
	fmt.Printf("principal mismatches: %d\n", mismatches)

	if hist := engine.MetricsSnapshot().Histograms[tokenauth.MetricAuthenticateLatency]; len(hist) > 0 {
		fmt.Printf("engine latency buckets (<=50us .. >25ms): %v\n", hist)
	}

	if mismatches > 0 || issueStats.failures > 0 || authStats.failures > 0 {
		os.Exit(1)
	}
}

// runPhase executes op n times across concurrency workers and records per-call latency.
func runPhase(n, concurrency int, op func(i, worker int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, n)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			local := make([]time.Duration, 0, n/concurrency+1)
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= n {
					break
				}
				t0 := time.Now()
				err := op(i, worker)
				local = append(local, time.Since(t0))
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
			}
			mu.Lock()
			latencies = append(latencies, local...)
			mu.Unlock()
		}(w)
	}
	wg.Wait()

	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total, failures: failures}
	}
	slices.Sort(samples)
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
