package jwt

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// AuthoritiesKey is the claim name carrying the comma-separated authority list.
	AuthoritiesKey = "auth"
	// GrantTypeBearer is the grant_type of every issued [TokenPair].
	GrantTypeBearer = "bearer"
	// AuthorityUser is the single authority stamped on issued access tokens.
	AuthorityUser = "USER"

	DefaultAccessTTL  = 24 * time.Hour
	DefaultRefreshTTL = 15 * 24 * time.Hour

	// MinKeyBytes is the smallest HS512 key accepted (512 bits).
	MinKeyBytes = 64
)

// Option customizes a [Provider] at construction.
type Option func(*Provider)

// WithAccessTTL overrides the access-token lifetime.
func WithAccessTTL(ttl time.Duration) Option {
	return func(p *Provider) { p.accessTTL = ttl }
}

// WithRefreshTTL overrides the refresh-token lifetime.
func WithRefreshTTL(ttl time.Duration) Option {
	return func(p *Provider) { p.refreshTTL = ttl }
}

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// Provider issues and verifies tokens with one immutable HS512 key.
//
// Provider holds no mutable state after [NewProvider] returns, so every method is safe to call
// from any number of goroutines.
type Provider struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewProvider decodes secretKeyBase64 into the signing key and applies opts.
//
// NewProvider fails with [KindConstruction] when the secret is not base64, decodes to fewer than
// [MinKeyBytes] bytes, or when the configured lifetimes are unusable. Short keys are rejected
// rather than padded.
func NewProvider(secretKeyBase64 string, opts ...Option) (*Provider, error) {
	key, err := decodeSecret(secretKeyBase64)
	if err != nil {
		return nil, newError(KindConstruction, err)
	}
	if len(key) < MinKeyBytes {
		return nil, newError(KindConstruction, fmt.Errorf("hs512 requires at least %d key bytes, got %d", MinKeyBytes, len(key)))
	}

	p := &Provider{
		key:        key,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.accessTTL < time.Second {
		return nil, newError(KindConstruction, errors.New("access TTL must be at least one second"))
	}
	if p.refreshTTL <= p.accessTTL {
		return nil, newError(KindConstruction, errors.New("refresh TTL must exceed access TTL"))
	}

	return p, nil
}

// Algorithm returns the JWS algorithm name used for every token.
func (p *Provider) Algorithm() string {
	return jwt.SigningMethodHS512.Alg()
}

// KeyBits returns the signing key length in bits.
func (p *Provider) KeyBits() int {
	return len(p.key) * 8
}

// AccessTTL is the lifetime stamped on issued access tokens.
func (p *Provider) AccessTTL() time.Duration { return p.accessTTL }

// RefreshTTL is the lifetime stamped on issued refresh tokens.
func (p *Provider) RefreshTTL() time.Duration { return p.refreshTTL }

// String never includes the key, so a Provider is safe to print with %v.
func (p *Provider) String() string {
	if p == nil {
		return "jwt.Provider(nil)"
	}
	return fmt.Sprintf("jwt.Provider{alg=%s key=[REDACTED %d bits] access=%s refresh=%s}",
		p.Algorithm(), p.KeyBits(), p.accessTTL, p.refreshTTL)
}

// GoString keeps %#v from dumping the signing key.
func (p *Provider) GoString() string { return p.String() }

// Issue signs a fresh access/refresh token pair for principalID.
//
// The access token carries sub, auth=USER and exp=now+access TTL. The refresh token carries
// only exp=now+refresh TTL, so it cannot authenticate a principal by itself.
func (p *Provider) Issue(principalID string) (TokenPair, error) {
	now := p.now()

	access, err := p.sign(AccessClaims{
		Authority: AuthorityUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.accessTTL)),
		},
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := p.sign(jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(p.refreshTTL)),
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return TokenPair{
		GrantType:    GrantTypeBearer,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Authenticate verifies accessToken and rebuilds the [Identity] it asserts.
//
// Expired tokens fail with [KindExpiredToken]; tokens without an auth claim fail with
// [KindUnauthorized]. The auth claim is split on "," into the authority set.
func (p *Provider) Authenticate(accessToken string) (*Identity, error) {
	claims, err := p.parseClaims(accessToken)
	if err != nil {
		return nil, err
	}
	if claims.expiredAt(p.now()) {
		expired := newError(KindExpiredToken, jwt.ErrTokenExpired)
		expired.Claims = claims
		return nil, expired
	}

	authorities := splitAuthorities(string(claims.Authority))
	if len(authorities) == 0 {
		return nil, newError(KindUnauthorized, errMissingAuthority)
	}

	return &Identity{
		PrincipalID: claims.Subject,
		Authorities: authorities,
	}, nil
}

// Validate fully verifies token, including expiry, without requiring an auth claim.
//
// Validate returns (true, nil) on success. It never reports false without an error: every
// failure comes back as (false, err) with err carrying the mapped [ErrorKind].
func (p *Provider) Validate(token string) (bool, error) {
	if _, err := p.parse(token); err != nil {
		return false, err
	}
	return true, nil
}

// parseClaims verifies token and returns its claims, tolerating expiry: an expired but
// correctly signed token yields its claims with a nil error.
func (p *Provider) parseClaims(token string) (*AccessClaims, error) {
	claims, err := p.parse(token)
	if err != nil {
		if KindOf(err) == KindExpiredToken && claims != nil {
			return claims, nil
		}
		return nil, err
	}
	return claims, nil
}

// parse is the strict path. On an expiry failure it still returns the decoded claims next to
// the error; every other failure returns nil claims.
func (p *Provider) parse(token string) (*AccessClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, newError(KindEmptyClaims, errBlankToken)
	}

	parser := jwt.NewParser(jwt.WithTimeFunc(p.now), jwt.WithExpirationRequired())
	claims := &AccessClaims{}
	if _, err := parser.ParseWithClaims(token, claims, p.keyFunc); err != nil {
		classified := classify(err)
		if classified.Kind == KindExpiredToken {
			classified.Claims = claims
			return claims, classified
		}
		return nil, classified
	}

	return claims, nil
}

func (p *Provider) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
		return nil, fmt.Errorf("%w: %v", errUnsupportedAlgorithm, t.Header["alg"])
	}
	return p.key, nil
}

func (p *Provider) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(p.key)
}

// classify maps golang-jwt validation errors onto this package's kinds. Signature checks run
// before temporal checks in golang-jwt, so an expired token has always verified first.
func classify(err error) *Error {
	switch {
	case errors.Is(err, errUnsupportedAlgorithm), errors.Is(err, jwt.ErrTokenUnverifiable):
		return newError(KindUnsupportedToken, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return newError(KindExpiredToken, err)
	default:
		// ErrTokenMalformed, ErrTokenSignatureInvalid, ErrTokenNotValidYet, ...
		return newError(KindInvalidToken, err)
	}
}

func decodeSecret(secret string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("secret key is empty")
	}
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		if key, err := enc.DecodeString(secret); err == nil {
			return key, nil
		}
	}
	return nil, errors.New("secret key is not valid base64")
}
