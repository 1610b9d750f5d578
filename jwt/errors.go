package jwt

import "errors"

// ErrorKind classifies token failures so callers can map them to their own responses.
type ErrorKind uint8

const (
	// KindUnknown is reported by [KindOf] for errors that did not originate in this package.
	KindUnknown ErrorKind = iota
	// KindUnauthorized: the token verified but lacks the authority claim.
	KindUnauthorized
	// KindInvalidToken: bad signature or structurally malformed token.
	KindInvalidToken
	// KindExpiredToken: well-formed and signed, but past its expiry.
	KindExpiredToken
	// KindUnsupportedToken: unsupported or unexpected signing algorithm.
	KindUnsupportedToken
	// KindEmptyClaims: empty or blank token input.
	KindEmptyClaims
	// KindConstruction: unusable signing key material or provider options.
	KindConstruction
)

// Sentinels matched by errors.Is against an *Error of the corresponding kind.
var (
	// ErrUnauthorized: the token verified but carries no usable auth claim.
	ErrUnauthorized = errors.New("jwt: authority claim missing")
	// ErrInvalidToken: malformed, badly signed, or missing a required claim.
	ErrInvalidToken = errors.New("jwt: invalid token")
	// ErrExpiredToken: signature is good but exp is not after now.
	ErrExpiredToken = errors.New("jwt: token expired")
	// ErrUnsupportedToken: signed with an algorithm other than HS512.
	ErrUnsupportedToken = errors.New("jwt: unsupported token")
	// ErrEmptyClaims: the token string was empty or whitespace.
	ErrEmptyClaims = errors.New("jwt: claims string is empty")
	// ErrConstruction: NewProvider rejected the key or options.
	ErrConstruction = errors.New("jwt: invalid provider configuration")
)

var (
	errUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	errMissingAuthority     = errors.New("token has no auth claim")
	errBlankToken           = errors.New("token string is blank")
)

// String returns the stable code used in logs and HTTP error bodies.
func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidToken:
		return "invalid_token"
	case KindExpiredToken:
		return "expired_token"
	case KindUnsupportedToken:
		return "unsupported_token"
	case KindEmptyClaims:
		return "empty_claims"
	case KindConstruction:
		return "construction"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindUnauthorized:
		return ErrUnauthorized
	case KindInvalidToken:
		return ErrInvalidToken
	case KindExpiredToken:
		return ErrExpiredToken
	case KindUnsupportedToken:
		return ErrUnsupportedToken
	case KindEmptyClaims:
		return ErrEmptyClaims
	case KindConstruction:
		return ErrConstruction
	default:
		return nil
	}
}

// Error is the single error type returned by [Provider] operations.
//
// Err holds the underlying cause (usually a golang-jwt validation error) and stays reachable
// through errors.Unwrap so boundary code can log it.
type Error struct {
	Kind ErrorKind
	Err  error
	// Claims is the verified payload of an expired token, so callers can tell whose token
	// expired. Nil for every other kind.
	Claims *AccessClaims
}

func newError(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

func (e *Error) Error() string {
	msg := "jwt: unknown error"
	if s := e.Kind.sentinel(); s != nil {
		msg = s.Error()
	}
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf extracts the [ErrorKind] from err, or [KindUnknown] when err is not an [*Error].
func KindOf(err error) ErrorKind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnknown
}
