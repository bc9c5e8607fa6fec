package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

// ValidationError reports required payload fields that are missing.
type ValidationError struct {
	Fields []string
}

// Error renders "Missing 'text' field" or "Missing 'textA' or 'textB' field".
func (e *ValidationError) Error() string {
	return "Missing '" + strings.Join(e.Fields, "' or '") + "' field"
}

// Missing reports whether a decoded JSON value counts as absent: nil, "",
// 0 or false. Empty arrays and objects are present.
func Missing(v any) bool {
	if v == nil {
		return true
	}
	// -0 is not the zero bit pattern, so check numerically.
	if f, ok := v.(float64); ok {
		return f == 0
	}
	return validate.Var(v, "required") != nil
}

// Validate checks that every required field is present. The error lists all
// declared fields when any of them is missing.
func Validate(payload map[string]any, required []string) error {
	if lo.SomeBy(required, func(name string) bool { return Missing(payload[name]) }) {
		return &ValidationError{Fields: required}
	}
	return nil
}

// DecodePayload reads a JSON request body. An empty body and any non-object
// JSON value decode to an empty payload, leaving required fields missing.
func DecodePayload(r io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if obj, ok := v.(map[string]any); ok {
		return obj, nil
	}
	return map[string]any{}, nil
}
