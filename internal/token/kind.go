package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token (e.g. an unterminated string).
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Ident is a bare run of non-space, non-brace, non-quote bytes.
	Ident
	// String is a quoted token.
	String
	// LBrace is '{'.
	LBrace
	// RBrace is '}'.
	RBrace
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case String:
		return "String"
	case LBrace:
		return "LBrace"
	case RBrace:
		return "RBrace"
	}
	return "Unknown"
}

// Describe returns a short human-readable form used in diagnostics.
func (k Kind) Describe() string {
	switch k {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case String:
		return "quoted string"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	}
	return "invalid token"
}
