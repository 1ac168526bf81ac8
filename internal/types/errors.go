package types

import "errors"

// Error taxonomy shared by repositories, services and handlers.
// Callers wrap these with fmt.Errorf("...: %w", err) and handlers
// resolve the HTTP status with errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("resource not found")
	ErrConflict    = errors.New("resource already exists")
	ErrUpstream    = errors.New("upstream provider failed")
	ErrPersistence = errors.New("database operation failed")

	ErrMissingToken = errors.New("authorization token is missing or malformed")
	ErrTokenInvalid = errors.New("authorization token is invalid")
	ErrTokenExpired = errors.New("authorization token has expired")
)
