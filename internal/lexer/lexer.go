package lexer

import (
	"vmfkit/internal/source"
	"vmfkit/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   token.Token // 1 элементный буфер для токена
	peeked bool
}

// New creates a lexer at the start of file.
func New(file *source.File, opts Options) *Lexer {
	return NewAt(file, 0, opts)
}

// NewAt creates a lexer that starts scanning at byte offset off. The offset
// must point between tokens; starting inside a quoted string rescans its tail
// as bare text.
func NewAt(file *source.File, off uint32, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursorAt(file, off),
		opts:   opts,
	}
}

// Offset returns the position of the next unread byte.
func (lx *Lexer) Offset() uint32 {
	if lx.peeked {
		return lx.look.Span.Start
	}
	return lx.cursor.Off
}

// Next возвращает следующий значимый токен.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.peeked {
		lx.peeked = false
		return lx.look
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.EmptySpan(),
		}
	}

	switch lx.cursor.Peek() {
	case '{':
		return lx.scanPunct(token.LBrace)
	case '}':
		return lx.scanPunct(token.RBrace)
	case '"':
		return lx.scanString()
	default:
		return lx.scanBare()
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if !lx.peeked {
		lx.look = lx.Next()
		lx.peeked = true
	}
	return lx.look
}

// EmptySpan returns a zero-length span at the cursor.
func (lx *Lexer) EmptySpan() source.Span {
	return source.At(lx.file.ID, lx.cursor.Off)
}

// File returns the file being scanned.
func (lx *Lexer) File() *source.File {
	return lx.file
}

func (lx *Lexer) scanPunct(kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.file.Text[sp.Start:sp.End]}
}
