// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

var (
	// ErrNotFound indicates the requested user/event/record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the actor does not own the resource being mutated.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation indicates malformed numeric/date/relationship input.
	ErrValidation = errors.New("validation failed")

	// ErrOracleUnavailable indicates the external text-generation service
	// returned a non-2xx status or an unparseable body.
	ErrOracleUnavailable = errors.New("oracle unavailable")
)
