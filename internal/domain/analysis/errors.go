package analysis

import "errors"

// Sentinel kinds for analysis errors.
var (
	ErrUnknownRoute   = errors.New("unknown analysis route")
	ErrDuplicateRoute = errors.New("analysis route already registered")
	ErrInvalidRoute   = errors.New("invalid analysis route")
	ErrTextNotString  = errors.New("text is not a string")
	ErrInvalidJSON    = errors.New("invalid JSON body")
	ErrNonConforming  = errors.New("result does not match template")
)
