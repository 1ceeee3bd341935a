package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"vmfkit/internal/source"
	"vmfkit/internal/token"
)

type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Escaped bool        `json:"escaped,omitempty"`
	Span    source.Span `json:"span"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		if _, err := fmt.Fprintf(w, "%3d: %-8s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Kind != token.EOF {
			fmt.Fprintf(w, " %q", tok.Text) //nolint:errcheck
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d", //nolint:errcheck
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)
		if tok.Escaped {
			fmt.Fprint(w, " (escaped)") //nolint:errcheck
		}
		fmt.Fprintln(w) //nolint:errcheck

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Escaped: tok.Escaped,
			Span:    tok.Span,
		})
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
