// Package common defines shared constants and sentinel errors used across
// the INFORM server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal  = errors.New("internal error")
	ErrorForbidden = errors.New("forbidden")

	// Authentication errors.
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorAccountDisabled    = errors.New("account disabled")
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorWeakPassword       = errors.New("password too weak")

	// Validation errors.
	ErrorValidation = errors.New("validation error")

	// Token lifecycle errors (invalid or malformed vs. past expiry).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
