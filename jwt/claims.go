package jwt

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPair is handed to the caller after a successful sign-in and is not retained.
type TokenPair struct {
	GrantType    string `json:"grant_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AccessClaims is the decoded payload of an access token: sub, auth and exp.
//
// Refresh tokens reuse the registered claims only, so their Authority and Subject are empty.
type AccessClaims struct {
	Authority AuthorityClaim `json:"auth,omitempty"`
	jwt.RegisteredClaims
}

// AuthorityClaim is the decoded auth claim. Issued tokens carry a comma-separated string;
// a JSON array of strings from another issuer is joined with commas. Any other JSON type
// decodes to the empty claim, so a correctly signed token never fails decoding because of
// its auth value and Authenticate reports it as unauthorized instead.
type AuthorityClaim string

func (a *AuthorityClaim) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		*a = AuthorityClaim(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				*a = ""
				return nil
			}
			parts = append(parts, s)
		}
		*a = AuthorityClaim(strings.Join(parts, ","))
	default:
		*a = ""
	}
	return nil
}

func (c *AccessClaims) expiredAt(now time.Time) bool {
	if c == nil || c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}

// Identity is the authenticated principal reconstructed from a valid access token.
type Identity struct {
	PrincipalID string
	// Authorities is a set: no duplicates, first-seen order.
	Authorities []string
}

// HasAuthority reports whether authority is granted to the identity.
func (i *Identity) HasAuthority(authority string) bool {
	if i == nil {
		return false
	}
	for _, a := range i.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

func splitAuthorities(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
