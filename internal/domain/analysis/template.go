package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strconv"

	"github.com/samber/lo"
)

// Field is one generated attribute.
type Field struct {
	Name  string
	Value any
}

// Result is a generated result object. Fields keep template order when
// encoded.
type Result []Field

// Get returns the value of the named field.
func (r Result) Get(name string) (any, bool) {
	f, ok := lo.Find(r, func(f Field) bool { return f.Name == name })
	return f.Value, ok
}

// MarshalJSON encodes r as a JSON object in field order.
func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, f.Name, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Envelope wraps a result under its route's envelope key.
type Envelope struct {
	Key    string
	Result Result
}

// MarshalJSON encodes e as {"<key>": <result>}.
func (e Envelope) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeMember(&buf, e.Key, e.Result); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, v any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	val, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode field %q: %w", key, err)
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(val)
	return nil
}

// Template is the ordered list of fields a route produces.
type Template []FieldSpec

// Names returns the field names in order.
func (t Template) Names() []string {
	return lo.Map(t, func(f FieldSpec, _ int) string { return f.Name })
}

// Generate builds a result for one request.
func (t Template) Generate(src Source, payload map[string]any) (Result, error) {
	out := make(Result, 0, len(t))
	for _, spec := range t {
		v, err := spec.Generate(src, payload)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", spec.Name, err)
		}
		out = append(out, Field{Name: spec.Name, Value: v})
	}
	return out, nil
}

var scorePattern = regexp.MustCompile(`^[01]\.\d{2}$`)

// Check reports whether a decoded JSON object has exactly the template's
// fields with values of the right shape. Derived values are only checked
// for their JSON type.
func (t Template) Check(obj map[string]any) error {
	for _, spec := range t {
		v, ok := obj[spec.Name]
		if !ok {
			return fmt.Errorf("%w: missing field %q", ErrNonConforming, spec.Name)
		}
		if err := spec.check(v); err != nil {
			return fmt.Errorf("%w: field %q: %w", ErrNonConforming, spec.Name, err)
		}
	}
	if extra := lo.Without(lo.Keys(obj), t.Names()...); len(extra) > 0 {
		slices.Sort(extra)
		return fmt.Errorf("%w: unexpected fields %v", ErrNonConforming, extra)
	}
	return nil
}

func (f FieldSpec) check(v any) error {
	switch f.Kind {
	case KindConst:
		want, err := normalize(f.Value)
		if err != nil {
			return err
		}
		if !reflect.DeepEqual(v, want) {
			return fmt.Errorf("got %v, want constant %v", v, want)
		}
	case KindFloat:
		s, ok := v.(string)
		if !ok || !scorePattern.MatchString(s) {
			return fmt.Errorf("got %v, want a two-decimal score string", v)
		}
		if n, _ := strconv.ParseFloat(s, 64); n < 0 || n > 1 {
			return fmt.Errorf("score %s out of range", s)
		}
	case KindEnum:
		s, ok := v.(string)
		if !ok || !slices.Contains(f.Labels, s) {
			return fmt.Errorf("got %v, want one of %v", v, f.Labels)
		}
	case KindDerived:
		if jsonType(v) != f.Type {
			return fmt.Errorf("got %s, want %s", jsonType(v), f.Type)
		}
	}
	return nil
}

// normalize round-trips v through JSON so it compares equal to decoded input.
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func jsonType(v any) string {
	switch x := v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		if x == float64(int64(x)) {
			return "integer"
		}
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
