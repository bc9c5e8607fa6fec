package analysis

import (
	"math/rand/v2"
	"strconv"
)

// Source is the random source generators draw from.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// globalSource uses the concurrency-safe top-level math/rand/v2 generator.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
func (globalSource) IntN(n int) int   { return rand.IntN(n) }

// DefaultSource is used when a registry is built without WithSource.
var DefaultSource Source = globalSource{}

// Kind classifies how a field value is produced.
type Kind int

const (
	KindConst Kind = iota
	KindFloat
	KindEnum
	KindDerived
)

func (k Kind) String() string {
	switch k {
	case KindConst:
		return "const"
	case KindFloat:
		return "float"
	case KindEnum:
		return "enum"
	case KindDerived:
		return "derived"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// DeriveFunc computes a value from the request payload.
type DeriveFunc func(payload map[string]any) (any, error)

// FieldSpec describes one attribute of a result object.
type FieldSpec struct {
	Name   string
	Kind   Kind
	Value  any        // KindConst
	Labels []string   // KindEnum
	Derive DeriveFunc // KindDerived
	// Type is the JSON schema type of a derived value: integer, string,
	// boolean or array.
	Type string
}

// Const returns a field that always holds v.
func Const(name string, v any) FieldSpec {
	return FieldSpec{Name: name, Kind: KindConst, Value: v}
}

// Float returns a field holding a uniform draw from [0,1) rendered with two
// decimals, e.g. "0.42".
func Float(name string) FieldSpec {
	return FieldSpec{Name: name, Kind: KindFloat, Type: "string"}
}

// Enum returns a field holding a uniform draw from labels.
func Enum(name string, labels ...string) FieldSpec {
	return FieldSpec{Name: name, Kind: KindEnum, Labels: labels, Type: "string"}
}

// Derived returns a field computed from the payload.
func Derived(name, typ string, fn DeriveFunc) FieldSpec {
	return FieldSpec{Name: name, Kind: KindDerived, Derive: fn, Type: typ}
}

// Generate produces the field value for one request.
func (f FieldSpec) Generate(src Source, payload map[string]any) (any, error) {
	switch f.Kind {
	case KindConst:
		return cloneConst(f.Value), nil
	case KindFloat:
		return FormatScore(src.Float64()), nil
	case KindEnum:
		return f.Labels[src.IntN(len(f.Labels))], nil
	case KindDerived:
		return f.Derive(payload)
	default:
		return nil, ErrInvalidRoute
	}
}

// FormatScore renders a score as a fixed two-decimal string.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// cloneConst copies slice constants so a caller mutating a result cannot
// change the template.
func cloneConst(v any) any {
	if s, ok := v.([]string); ok {
		out := make([]string, len(s))
		copy(out, s)
		return out
	}
	return v
}
