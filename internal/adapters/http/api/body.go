package api

import (
	"errors"
	"net/http"

	"github.com/emopulse/emopulse-api/internal/domain/analysis"
)

// decodeBody reads at most maxBytes of JSON from r.
func decodeBody(op string, w http.ResponseWriter, r *http.Request, maxBytes int64) (map[string]any, error) {
	body := http.MaxBytesReader(w, r.Body, maxBytes)
	defer func() { _ = body.Close() }()

	payload, err := analysis.DecodePayload(body)
	if err == nil {
		return payload, nil
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return nil, WrapKind(op, ErrPayloadTooLarge, err)
	case errors.Is(err, analysis.ErrInvalidJSON):
		return nil, WrapKind(op, ErrInvalidJSON, err)
	default:
		return nil, WrapKind(op, ErrBadRequest, err)
	}
}
