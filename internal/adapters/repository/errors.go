package repository

import "errors"

// Sentinel kinds for usage store errors.
var (
	ErrNotFound     = errors.New("route usage not found")
	ErrInvalidLimit = errors.New("invalid usage limit")
	ErrEmptyRoute   = errors.New("usage route is empty")
)
