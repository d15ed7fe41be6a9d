package datasets

import "errors"

// ErrNotFound indicates no dataset is registered under the requested ID.
var ErrNotFound = errors.New("dataset not found")

// ErrInvalidJSON indicates the uploaded payload could not be parsed as JSON.
var ErrInvalidJSON = errors.New("invalid JSON payload")

// ErrTooLarge indicates the uploaded payload exceeds the configured size cap.
var ErrTooLarge = errors.New("dataset too large")

// ErrEmptyPayload indicates an upload with no content.
var ErrEmptyPayload = errors.New("empty payload")
