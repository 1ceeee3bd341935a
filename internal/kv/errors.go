package kv

import (
	"fmt"

	"vmfkit/internal/diag"
	"vmfkit/internal/source"
)

// SyntaxError is the first lexical or structural error met while building a
// tree. Code tells the kind: LexUnterminatedString, SynUnclosedBlock or one of
// the unexpected-token codes.
type SyntaxError struct {
	Code    diag.Code
	Span    source.Span
	Message string
	// Open is the span of the unclosed block name for SynUnclosedBlock.
	Open source.Span
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Code.ID(), e.Span.Start, e.Message)
}
