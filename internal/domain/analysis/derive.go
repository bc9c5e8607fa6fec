package analysis

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/samber/lo"
)

const (
	summaryWords  = 12
	keywordsLimit = 5
)

// textOf returns payload[key] as a string.
func textOf(payload map[string]any, key string) (string, error) {
	v := payload[key]
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T", ErrTextNotString, key, v)
	}
	return s, nil
}

// Length counts UTF-16 code units, matching JavaScript's String.length.
func Length(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Summarize keeps the first twelve words and reports whether it cut any.
func Summarize(s string) (string, bool) {
	words := strings.Fields(s)
	if len(words) <= summaryWords {
		return strings.Join(words, " "), false
	}
	return strings.Join(words[:summaryWords], " ") + "...", true
}

// Keywords returns up to five distinct lower-cased words in order of first
// appearance, trimmed of surrounding punctuation.
func Keywords(s string) []string {
	words := lo.FilterMap(strings.Fields(s), func(w string, _ int) (string, bool) {
		w = strings.ToLower(strings.TrimFunc(w, unicode.IsPunct))
		return w, w != ""
	})
	words = lo.Uniq(words)
	if len(words) > keywordsLimit {
		words = words[:keywordsLimit]
	}
	return words
}

// Rotate reverses s by code point.
func Rotate(s string) string {
	r := []rune(s)
	slices.Reverse(r)
	return string(r)
}

func deriveText(fn func(string) any) DeriveFunc {
	return func(payload map[string]any) (any, error) {
		s, err := textOf(payload, "text")
		if err != nil {
			return nil, err
		}
		return fn(s), nil
	}
}
