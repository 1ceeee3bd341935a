package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"vmfkit/internal/kv"
	"vmfkit/internal/lexer"
	"vmfkit/internal/source"
	"vmfkit/internal/token"
)

func lexAll(t *testing.T, fs *source.FileSet, id source.FileID) []token.Token {
	t.Helper()
	lx := lexer.New(fs.Get(id), lexer.Options{})
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestFormatTokensPretty(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.vmf", []byte("world\n{\n\"k\" \"a\\\"b\"\n}\n"))

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, lexAll(t, fs, id), fs); err != nil {
		t.Fatalf("FormatTokensPretty: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		`  1: Ident    "world" at 1:1-1:6`,
		`  2: LBrace   "{" at 2:1-2:2`,
		`  3: String   "k" at 3:1-3:4`,
		`  4: String   "a\\\"b" at 3:5-3:11 (escaped)`,
		`  5: RBrace   "}" at 4:1-4:2`,
		`  6: EOF      at 5:1-5:1`,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d:\n got %s\nwant %s", i+1, lines[i], want[i])
		}
	}
}

func TestFormatTokensJSON(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.vmf", []byte(`a { "b" "c" }`))

	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, lexAll(t, fs, id)); err != nil {
		t.Fatalf("FormatTokensJSON: %v", err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	kinds := make([]string, len(out))
	for i, o := range out {
		kinds[i] = o.Kind
	}
	if got := strings.Join(kinds, " "); got != "Ident LBrace String String RBrace EOF" {
		t.Fatalf("kinds = %s", got)
	}
	if out[2].Text != "b" || out[2].Span.Start != 4 || out[2].Span.End != 7 {
		t.Errorf("unexpected token %+v", out[2])
	}
}

func TestFormatTreePretty(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.vmf", []byte(`world { "id" "1" solid { "id" "2" } }`))
	doc, err := kv.Build(fs.Get(id), kv.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var buf bytes.Buffer
	if err := FormatTreePretty(&buf, doc, fs); err != nil {
		t.Fatalf("FormatTreePretty: %v", err)
	}
	want := strings.Join([]string{
		"test.vmf (1 blocks)",
		"└─ world (span: 1:1-1:38)",
		"   ├─ id = \"1\"",
		"   └─ solid (span: 1:18-1:36)",
		"      └─ id = \"2\"",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected tree:\n%s\nwant:\n%s", got, want)
	}
}
