// Package middleware adapts tokenauth.Engine to net/http.
//
// [Guard] reads the bearer token from the Authorization header, authenticates it through
// Engine.Authenticate and stores the resulting identity in the request context, where
// handlers read it with [IdentityFromContext]. [RequireAuthority] additionally checks for
// one granted authority.
//
// Rejections are written as a small JSON body carrying the error kind:
//
//	{"error":"expired_token"}
//
// This package never parses tokens itself; every decision is delegated to the Engine.
package middleware
