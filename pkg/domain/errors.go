package domain

import "errors"

// Common domain errors. Package-specific errors wrap one of these so the
// transport layer can translate them with errors.Is.
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized is returned when a caller is not allowed to act on a resource
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConcurrentUpdate is returned when an optimistic version check fails
	ErrConcurrentUpdate = errors.New("resource was modified concurrently")
)
