package ai

import "errors"

// ErrQuotaExceeded indicates the model endpoint returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrModelUnavailable indicates the local model endpoint could not be reached
// or returned no usable completion.
var ErrModelUnavailable = errors.New("ai model unavailable")
