package tokenauth

import (
	"bytes"
	"encoding/base64"
	"sync"
	"testing"
	"time"
)

func testSecret() string {
	key := make([]byte, 64)
	for i := range key {
		key[i] = byte(i*7 + 3)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.SecretKey = testSecret()
	return cfg
}

func buildTestEngine(t *testing.T, b *Builder) *Engine {
	t.Helper()
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Contains(s string) bool {
	return bytes.Contains([]byte(b.String()), []byte(s))
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
