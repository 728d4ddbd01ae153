package quota

import "errors"

var (
	// ErrValidation marks a rejected API key (empty after trimming).
	ErrValidation = errors.New("api key cannot be empty")
	// ErrNetwork marks a failed request: transport error, timeout,
	// non-success status, or malformed payload.
	ErrNetwork = errors.New("network error")
	// ErrComputation marks valid payloads whose arithmetic is not finite,
	// usually caused by a wrong or placeholder key.
	ErrComputation = errors.New("credits could not be computed")
)
