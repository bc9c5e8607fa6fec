package probe

import "errors"

var (
	ErrChecksFailed   = errors.New("probe checks failed")
	ErrUnexpectedBody = errors.New("unexpected response body")
	ErrStatus         = errors.New("unexpected status")
)
