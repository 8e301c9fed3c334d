package core

import "errors"

// Error kinds shared across the pipeline's collaborators. Callers classify
// failures with errors.Is; the concrete message travels alongside via
// wrapping.
var (
	ErrConfig    = errors.New("invalid configuration")
	ErrNotFound  = errors.New("not found")
	ErrFormat    = errors.New("invalid format")
	ErrTransport = errors.New("transport failure")
	ErrService   = errors.New("service failure")
)
