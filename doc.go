// Package tokenauth wires the stateless token provider in [jwt] into a service: configuration,
// structured boundary logging, async audit events and lock-free metrics.
//
// The [Engine] is safe to call from multiple goroutines after [Builder.Build]. It holds no
// per-request state; the only shared object is the immutable signing key inside the provider.
//
// # Architecture boundaries
//
// tokenauth is the public surface. Token construction, signature verification and the error
// kinds live in the jwt sub-package, which never logs. The Engine is the boundary that turns
// error kinds into log lines, audit events and metric increments.
//
// # What this package must NOT do
//
//   - Persist tokens or keep revocation lists.
//   - Implement a refresh-token exchange.
//   - Log token text or key material.
package tokenauth
