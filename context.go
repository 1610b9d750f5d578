package tokenauth

import "context"

// RequestInfo describes the caller of an engine operation. It is copied into audit events
// and never influences token verification.
type RequestInfo struct {
	ClientIP  string
	UserAgent string
}

type requestInfoContextKey struct{}

// WithRequestInfo attaches info to ctx, replacing any earlier value.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoContextKey{}, info)
}

// RequestInfoFromContext returns the info attached to ctx, or the zero value.
func RequestInfoFromContext(ctx context.Context) RequestInfo {
	if ctx == nil {
		return RequestInfo{}
	}
	info, _ := ctx.Value(requestInfoContextKey{}).(RequestInfo)
	return info
}

// WithClientIP sets only the client IP, keeping a user agent already on ctx.
func WithClientIP(ctx context.Context, ip string) context.Context {
	info := RequestInfoFromContext(ctx)
	info.ClientIP = ip
	return WithRequestInfo(ctx, info)
}

// WithUserAgent sets only the user agent, keeping a client IP already on ctx.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	info := RequestInfoFromContext(ctx)
	info.UserAgent = userAgent
	return WithRequestInfo(ctx, info)
}
