package tokenauth

import "errors"

var (
	// ErrEngineNotReady is returned by methods called on a nil or unbuilt Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrInvalidConfig wraps every Config.Validate failure.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvalidPrincipal is returned when tokens are requested for a blank principal id.
	ErrInvalidPrincipal = errors.New("invalid principal id")
)
