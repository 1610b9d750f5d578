package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/travelmate/tokenauth"
	"github.com/travelmate/tokenauth/jwt"
)

type identityContextKey struct{}

// IdentityFromContext returns the identity stored by [Guard].
func IdentityFromContext(ctx context.Context) (*jwt.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*jwt.Identity)
	return id, ok && id != nil
}

// Guard authenticates the bearer token of every request. A missing header is treated as
// an empty token and rejected with 401 empty_claims and a bare "Bearer" challenge.
func Guard(engine *tokenauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				writeError(w, http.StatusInternalServerError, jwt.KindUnknown.String())
				return
			}

			ctx := tokenauth.WithRequestInfo(r.Context(), tokenauth.RequestInfo{
				ClientIP:  clientIP(r),
				UserAgent: r.UserAgent(),
			})

			token, presented := bearerToken(r.Header.Get("Authorization"))

			id, err := engine.Authenticate(ctx, token)
			if err != nil {
				kind := jwt.KindOf(err)
				if !presented && kind == jwt.KindEmptyClaims {
					// RFC 6750 section 3.1: no error code when the request carried no credentials.
					w.Header().Set("WWW-Authenticate", "Bearer")
				}
				writeError(w, statusFor(kind), kind.String())
				return
			}

			ctx = context.WithValue(ctx, identityContextKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthority runs [Guard] and then answers 403 forbidden unless the identity holds
// authority.
func RequireAuthority(engine *tokenauth.Engine, authority string) func(http.Handler) http.Handler {
	guard := Guard(engine)
	return func(next http.Handler) http.Handler {
		check := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok || !id.HasAuthority(authority) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
		return guard(check)
	}
}

// WriteTokenPair writes pair as a 200 JSON response.
func WriteTokenPair(w http.ResponseWriter, pair jwt.TokenPair) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(pair)
}

func statusFor(kind jwt.ErrorKind) int {
	switch kind {
	case jwt.KindUnauthorized,
		jwt.KindInvalidToken,
		jwt.KindExpiredToken,
		jwt.KindEmptyClaims,
		jwt.KindUnsupportedToken:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") == "" {
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: code})
}

// bearerToken extracts the token after a case-insensitive "Bearer" scheme.
func bearerToken(value string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(value), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
