// Package common defines shared sentinel errors used across StremHub
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Auth errors. A wrong password, a missing user and a bad, expired or
	// malformed bearer token all collapse into this single value so the
	// caller cannot tell the cases apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Registration collision on the unique email column.
	ErrDuplicateEmail = errors.New("email already registered")

	// Remote token exchange failure. Wrapped with the provider detail for
	// logging; the detail never reaches the end user verbatim.
	ErrOAuthExchange = errors.New("oauth exchange failed")
)
