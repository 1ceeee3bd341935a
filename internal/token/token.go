package token

import (
	"vmfkit/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	// Escaped is set for String tokens whose Text contains \" sequences.
	Escaped bool
}

// IsText reports whether the token can serve as a key, value or block name.
func (t Token) IsText() bool {
	return t.Kind == Ident || t.Kind == String
}
