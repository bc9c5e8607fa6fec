package proxy

import "errors"

var (
	ErrInvalidTarget = errors.New("invalid proxy target")
	ErrUpstream      = errors.New("upstream request failed")
)
