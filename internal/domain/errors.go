package domain

import "errors"

// Failure taxonomy shared across adapters. Infrastructure wraps these with
// fmt.Errorf("...: %w", ...) so callers can branch with errors.Is.
var (
	// ErrNetwork covers transport failures, timeouts and non-success
	// responses from the feed API.
	ErrNetwork = errors.New("network failure")

	// ErrDecode covers feed response bodies that cannot be parsed.
	ErrDecode = errors.New("decode failure")

	// ErrServiceUnavailable covers transport failures or non-success
	// responses from the model service.
	ErrServiceUnavailable = errors.New("model service unavailable")

	// ErrMalformedJudgment means no valid judgment JSON could be extracted
	// from the model reply.
	ErrMalformedJudgment = errors.New("malformed judgment")

	// ErrStore covers failed persistence operations.
	ErrStore = errors.New("store failure")

	// ErrConfig covers invalid configuration, surfaced only at startup.
	ErrConfig = errors.New("invalid configuration")
)
