package vmf

import (
	"errors"
	"fmt"

	"vmfkit/internal/diag"
	"vmfkit/internal/kv"
	"vmfkit/internal/source"
)

// ErrorKind classifies parse failures. Each kind is also an error value, so
// callers can write errors.Is(err, vmf.ErrInvalidValue).
type ErrorKind uint8

const (
	ErrIO ErrorKind = iota + 1
	ErrUnexpectedToken
	ErrUnterminatedString
	ErrUnterminatedBlock
	ErrMissingField
	ErrInvalidValue
)

func (k ErrorKind) String() string {
	switch k {
	case ErrIO:
		return "io error"
	case ErrUnexpectedToken:
		return "unexpected token"
	case ErrUnterminatedString:
		return "unterminated string"
	case ErrUnterminatedBlock:
		return "unterminated block"
	case ErrMissingField:
		return "missing field"
	case ErrInvalidValue:
		return "invalid value"
	}
	return "unknown error"
}

func (k ErrorKind) Error() string { return "vmf: " + k.String() }

// Error describes the first failure of a parse call.
type Error struct {
	Kind ErrorKind
	Path string
	// Offset is the byte offset of the offending text; Line and Column are
	// 1-based and zero when unknown.
	Offset int
	Line   int
	Column int
	// Field and Block name the key and the enclosing block for extraction
	// errors.
	Field string
	Block string
	// Raw is the offending value text as it appears in the source.
	Raw     string
	Message string
	Err     error

	code diag.Code
	span source.Span
}

func (e *Error) Error() string {
	msg := e.describe()
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, msg)
	}
	if e.Path != "" {
		return e.Path + ": " + msg
	}
	return msg
}

func (e *Error) describe() string {
	switch e.Kind {
	case ErrMissingField:
		return fmt.Sprintf("missing required field %q in %s", e.Field, e.Block)
	case ErrInvalidValue:
		s := fmt.Sprintf("invalid value for %q in %s", e.Field, e.Block)
		if e.Message != "" {
			s += ": " + e.Message
		}
		if e.Raw != "" {
			s += fmt.Sprintf(" (%q)", e.Raw)
		}
		return s
	case ErrIO:
		if e.Err != nil {
			return "cannot read: " + e.Err.Error()
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches ErrorKind sentinels.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// Span returns the source span of the offending text.
func (e *Error) Span() source.Span { return e.span }

// Code maps the error onto the diagnostic code space.
func (e *Error) Code() diag.Code {
	if e.code != diag.UnknownCode {
		return e.code
	}
	switch e.Kind {
	case ErrIO:
		return diag.IOLoadFileError
	case ErrUnexpectedToken:
		return diag.SynUnexpectedToken
	case ErrUnterminatedString:
		return diag.LexUnterminatedString
	case ErrUnterminatedBlock:
		return diag.SynUnclosedBlock
	case ErrMissingField:
		return diag.ExtMissingField
	case ErrInvalidValue:
		return diag.ExtInvalidValue
	}
	return diag.UnknownCode
}

// Diagnostic converts the error for rendering through diagfmt.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code(), e.span, e.describe())
}

// locate fills position fields from the file the span belongs to.
func (e *Error) locate(f *source.File) *Error {
	if f == nil {
		return e
	}
	e.Path = f.Path
	e.Offset = int(e.span.Start)
	pos := f.Position(e.span.Start)
	e.Line = int(pos.Line)
	e.Column = int(pos.Col)
	return e
}

func locate(err error, f *source.File) error {
	var ve *Error
	if errors.As(err, &ve) {
		ve.locate(f)
	}
	return err
}

func fromSyntax(se *kv.SyntaxError) *Error {
	kind := ErrUnexpectedToken
	switch se.Code {
	case diag.LexUnterminatedString:
		kind = ErrUnterminatedString
	case diag.SynUnclosedBlock:
		kind = ErrUnterminatedBlock
	}
	return &Error{
		Kind:    kind,
		Message: se.Message,
		Err:     se,
		code:    se.Code,
		span:    se.Span,
	}
}

func missingField(n *kv.Node, field string) *Error {
	return &Error{
		Kind:  ErrMissingField,
		Field: field,
		Block: n.Name,
		span:  n.NameSpan,
	}
}

func invalidValue(block, field string, v kv.Value, msg string) *Error {
	return &Error{
		Kind:    ErrInvalidValue,
		Field:   field,
		Block:   block,
		Raw:     v.Raw,
		Message: msg,
		span:    v.Span,
	}
}
