package domain

import "errors"

// Error taxonomy for the analysis core. All of these are recoverable: they are
// returned as values, mapped to status codes at the HTTP edge, and must never
// take the hosting process down.
var (
	// ErrNotFound covers unknown products, missing history, missing models
	// and missing inventory.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput rejects bad parameters before any computation runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPredictionFailed wraps failures raised by the underlying model's
	// predict call.
	ErrPredictionFailed = errors.New("prediction failed")

	// ErrExternalService marks an unreachable or malformed external
	// collaborator (reasoning service, live weather). Callers substitute the
	// deterministic fallback instead of propagating it as a hard failure.
	ErrExternalService = errors.New("external service unavailable")
)
