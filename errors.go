package dirindex

import "errors"

var (
	// ErrNotFound is returned when a path does not exist or is not a directory
	ErrNotFound = errors.New("not found")
	// ErrInvalidPath is returned when a request path fails sanitization
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidConfig is returned when a mount configuration is rejected
	ErrInvalidConfig = errors.New("invalid config")
)
