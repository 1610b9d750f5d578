package jwt

import "testing"

func benchProvider(b *testing.B) *Provider {
	b.Helper()
	p, err := NewProvider(testSecret(9))
	if err != nil {
		b.Fatalf("NewProvider failed: %v", err)
	}
	return p
}

func BenchmarkIssue(b *testing.B) {
	p := benchProvider(b)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := p.Issue("bench-principal"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAuthenticate(b *testing.B) {
	p := benchProvider(b)
	pair, err := p.Issue("bench-principal")
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := p.Authenticate(pair.AccessToken); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAuthenticateInvalid(b *testing.B) {
	p := benchProvider(b)
	other, err := NewProvider(testSecret(10))
	if err != nil {
		b.Fatal(err)
	}
	pair, err := other.Issue("bench-principal")
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := p.Authenticate(pair.AccessToken); err == nil {
			b.Fatal("expected rejection")
		}
	}
}
