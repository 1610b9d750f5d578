// Package jwt issues and verifies HS512-signed session tokens for a single shared secret.
//
// A [Provider] owns the signing key, which is decoded once from a base64 secret and never
// changes afterwards. Issued [TokenPair] values carry a short-lived access token with the
// principal and its authority, and a longer-lived refresh token that only carries an expiry.
//
// # Error kinds
//
// Every failure returned by this package is an [*Error] carrying an [ErrorKind]. Callers
// dispatch with [KindOf] or with errors.Is against the exported sentinels
// ([ErrInvalidToken], [ErrExpiredToken], ...). No kind is retryable.
//
// # What this package must NOT do
//
//   - Log, emit metrics, or perform I/O. Reporting belongs to the caller.
//   - Store issued tokens or track revocation.
//   - Read configuration on its own; the secret is always passed to [NewProvider].
package jwt
