package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrClosed = errors.New("usage queue closed")
	ErrFull   = errors.New("usage queue full")
)
