// Package common defines sentinel errors and small helpers shared by the
// codec, the storage adapters and the CLI. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Input validation errors.
	ErrorInvalidInput = errors.New("invalid input")

	// Repository-level errors.
	ErrorNotFound         = errors.New("not found")
	ErrorStoreUnavailable = errors.New("store unavailable")

	// Codec errors. A failed secure random source is fatal for credential creation.
	ErrorRandomnessUnavailable = errors.New("secure randomness unavailable")

	// Service-level errors. Unknown user and wrong password both map here.
	ErrorUnauthorized = errors.New("unauthorized")
)
