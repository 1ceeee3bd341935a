package kv

import (
	"fmt"

	"vmfkit/internal/diag"
	"vmfkit/internal/lexer"
	"vmfkit/internal/source"
	"vmfkit/internal/token"
)

// DefaultMaxDepth bounds block nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 256

type Options struct {
	// MaxDepth is the maximum number of simultaneously open blocks.
	MaxDepth int
	// Reporter receives lexical and structural diagnostics; may be nil.
	Reporter diag.Reporter
	// Offset is the byte offset to start scanning from.
	Offset uint32
}

// builder — состояние построителя дерева на один буфер
type builder struct {
	lx    *lexer.Lexer
	opts  Options
	stack []*Node // открытые блоки, вершина — последний
}

// Build tokenizes file and builds its block tree. The first error aborts the
// build and is returned as *SyntaxError; no partial document is returned.
func Build(file *source.File, opts Options) (*Document, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	b := &builder{
		lx:   lexer.NewAt(file, opts.Offset, lexer.Options{Reporter: opts.Reporter}),
		opts: opts,
	}
	doc := &Document{File: file}
	if err := b.run(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (b *builder) run(doc *Document) *SyntaxError {
	for {
		tok := b.lx.Next()
		switch tok.Kind {
		case token.EOF:
			if len(b.stack) == 0 {
				return nil
			}
			return b.unclosed(tok)
		case token.Invalid:
			return b.lexError(tok)
		case token.RBrace:
			if len(b.stack) == 0 {
				return b.fail(diag.SynUnexpectedToken, tok.Span, "unmatched '}'")
			}
			b.close(doc, tok)
		case token.LBrace:
			return b.fail(diag.SynUnexpectedToken, tok.Span, "'{' without a block name")
		default:
			if err := b.entry(tok); err != nil {
				return err
			}
		}
	}
}

// entry разбирает то, что следует за именем: '{' открывает блок, текст — значение пары.
func (b *builder) entry(name token.Token) *SyntaxError {
	next := b.lx.Next()
	switch next.Kind {
	case token.LBrace:
		if len(b.stack) >= b.opts.MaxDepth {
			return b.fail(diag.SynNestingTooDeep, name.Span,
				fmt.Sprintf("blocks nested deeper than %d", b.opts.MaxDepth))
		}
		b.stack = append(b.stack, &Node{
			Name:     text(name),
			NameSpan: name.Span,
			Span:     name.Span.Cover(next.Span),
		})
		return nil
	case token.EOF:
		if len(b.stack) == 0 {
			return b.fail(diag.SynUnexpectedToken, name.Span,
				fmt.Sprintf("expected '{' after %q", name.Text))
		}
		return b.unclosed(next)
	case token.Invalid:
		return b.lexError(next)
	case token.RBrace:
		if len(b.stack) == 0 {
			return b.fail(diag.SynUnexpectedToken, next.Span,
				fmt.Sprintf("expected '{' after %q, found '}'", name.Text))
		}
		return b.fail(diag.SynExpectValue, next.Span,
			fmt.Sprintf("key %q has no value", name.Text))
	}

	if len(b.stack) == 0 {
		return b.fail(diag.SynTopLevelPair, name.Span,
			fmt.Sprintf("pair %q outside of any block", name.Text))
	}
	top := b.stack[len(b.stack)-1]
	top.Entries = append(top.Entries, Entry{
		Kind:    EntryPair,
		Key:     text(name),
		KeySpan: name.Span,
		Value:   Value{Raw: next.Text, Escaped: next.Escaped, Span: next.Span},
	})
	return nil
}

// close снимает блок со стека и добавляет его родителю или в документ.
// Пока блок открыт, родитель не получает записей, так что порядок сохраняется.
func (b *builder) close(doc *Document, rbrace token.Token) {
	n := len(b.stack) - 1
	node := b.stack[n]
	b.stack[n] = nil
	b.stack = b.stack[:n]
	node.Span = node.Span.Cover(rbrace.Span)

	if n == 0 {
		doc.Blocks = append(doc.Blocks, node)
		return
	}
	parent := b.stack[n-1]
	parent.Entries = append(parent.Entries, Entry{
		Kind:    EntryBlock,
		Key:     node.Name,
		KeySpan: node.NameSpan,
		Block:   node,
	})
}

func (b *builder) unclosed(eof token.Token) *SyntaxError {
	open := b.stack[len(b.stack)-1]
	err := &SyntaxError{
		Code:    diag.SynUnclosedBlock,
		Span:    open.NameSpan,
		Message: fmt.Sprintf("block %q is not closed before end of input", open.Name),
		Open:    open.NameSpan,
	}
	diag.ReportError(b.opts.Reporter, err.Code, err.Span, err.Message).
		WithNote(eof.Span, "end of input reached here").
		Emit()
	return err
}

// lexError не репортит повторно: лексер уже сообщил о незакрытой строке.
func (b *builder) lexError(tok token.Token) *SyntaxError {
	return &SyntaxError{
		Code:    diag.LexUnterminatedString,
		Span:    source.At(tok.Span.File, tok.Span.Start),
		Message: "unterminated quoted string",
	}
}

func (b *builder) fail(code diag.Code, sp source.Span, msg string) *SyntaxError {
	diag.ReportError(b.opts.Reporter, code, sp, msg).Emit()
	return &SyntaxError{Code: code, Span: sp, Message: msg}
}

func text(tok token.Token) string {
	if tok.Escaped {
		return Unescape(tok.Text)
	}
	return tok.Text
}
