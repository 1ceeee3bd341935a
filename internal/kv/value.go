package kv

import (
	"strings"

	"vmfkit/internal/source"
)

// Value is a scalar pair value as it appears in the source.
type Value struct {
	// Raw is the token text without quotes; \" sequences are kept as is.
	Raw     string
	Escaped bool
	Span    source.Span
}

// String returns the value with \" unescaped. Without escapes it returns Raw
// and does not allocate.
func (v Value) String() string {
	if !v.Escaped {
		return v.Raw
	}
	return Unescape(v.Raw)
}

// Unescape replaces every \" with ".
func Unescape(s string) string {
	return strings.ReplaceAll(s, `\"`, `"`)
}
