package kv_test

import (
	"errors"
	"strings"
	"testing"

	"vmfkit/internal/diag"
	"vmfkit/internal/kv"
	"vmfkit/internal/source"
	"vmfkit/internal/testkit"
)

func build(t *testing.T, input string, opts kv.Options) (*kv.Document, *kv.SyntaxError) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.vmf", []byte(input)))
	doc, err := kv.Build(file, opts)
	if err == nil {
		return doc, nil
	}
	var se *kv.SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("unexpected error type %T: %v", err, err)
	}
	if doc != nil {
		t.Fatal("partial document returned with error")
	}
	return nil, se
}

// Порядок записей и дубликаты сохраняются
func TestEntriesKeepOrderAndDuplicates(t *testing.T) {
	doc, err := build(t, `world
{
	"id" "1"
	"a" "first"
	solid { "id" "2" }
	"a" "second"
	solid { "id" "3" }
	"b" "x"
}
entity { "id" "4" }
`, kv.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Blocks) != 2 || doc.Blocks[0].Name != "world" || doc.Blocks[1].Name != "entity" {
		t.Fatalf("unexpected top-level blocks: %+v", doc.Blocks)
	}
	world := doc.Blocks[0]
	wantKeys := []string{"id", "a", "solid", "a", "solid", "b"}
	if world.Len() != len(wantKeys) {
		t.Fatalf("world has %d entries, want %d", world.Len(), len(wantKeys))
	}
	for i, k := range wantKeys {
		if world.Entries[i].Key != k {
			t.Errorf("entry %d key = %q, want %q", i, world.Entries[i].Key, k)
		}
	}
	if world.Entries[2].Kind != kv.EntryBlock || world.Entries[2].Block == nil {
		t.Fatal("entry 2 must be a block")
	}

	if v, ok := world.Get("a"); !ok || v.String() != "first" {
		t.Errorf("Get(a) = %q, %v", v.Raw, ok)
	}
	all := world.All("a")
	if len(all) != 2 || all[1].String() != "second" {
		t.Errorf("All(a) = %+v", all)
	}
	solids := world.Blocks("solid")
	if len(solids) != 2 {
		t.Fatalf("got %d solids", len(solids))
	}
	if id, _ := solids[1].Get("id"); id.Raw != "3" {
		t.Errorf("second solid id = %q", id.Raw)
	}
	if world.Child("solid") != solids[0] {
		t.Error("Child must return the first block")
	}
	if world.Child("missing") != nil {
		t.Error("Child of missing name must be nil")
	}
	if got := len(world.Pairs()); got != 4 {
		t.Errorf("Pairs() = %d, want 4", got)
	}
}

func TestNodeSpans(t *testing.T) {
	input := `outer { inner { } }`
	doc, err := build(t, input, kv.Options{})
	if err != nil {
		t.Fatal(err)
	}
	outer := doc.Blocks[0]
	if outer.Span.Start != 0 || int(outer.Span.End) != len(input) {
		t.Errorf("outer span = %s", outer.Span)
	}
	inner := outer.Child("inner")
	if inner.NameSpan.Start != 8 || inner.Span.End != 17 {
		t.Errorf("inner spans = %s / %s", inner.NameSpan, inner.Span)
	}
}

func TestEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   \n", "// only a comment\n"} {
		doc, err := build(t, input, kv.Options{})
		if err != nil {
			t.Fatalf("%q: %v", input, err)
		}
		if len(doc.Blocks) != 0 {
			t.Fatalf("%q: got %d blocks", input, len(doc.Blocks))
		}
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
		off   uint32
	}{
		{"outer not closed", "world\n{\n\"id\" \"1\"\n", diag.SynUnclosedBlock, 0},
		{"inner not closed", "world { solid { \"id\" \"1\" }", diag.SynUnclosedBlock, 0},
		{"innermost reported", "world { solid { \"id\" \"1\"", diag.SynUnclosedBlock, 8},
		{"key at eof", "world { \"id\"", diag.SynUnclosedBlock, 0},
		{"stray close", "world { } }", diag.SynUnexpectedToken, 10},
		{"close first", "}", diag.SynUnexpectedToken, 0},
		{"top-level pair", "\"x\" \"1\"", diag.SynTopLevelPair, 0},
		{"name at eof", "world", diag.SynUnexpectedToken, 0},
		{"anonymous block", "{ }", diag.SynUnexpectedToken, 0},
		{"nested anonymous", "world { { } }", diag.SynUnexpectedToken, 8},
		{"key without value", "world { \"id\" }", diag.SynExpectValue, 13},
		{"unterminated string", "world { \"id\" \"1 }", diag.LexUnterminatedString, 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build(t, tt.input, kv.Options{})
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Code != tt.code {
				t.Errorf("code = %s, want %s", err.Code.ID(), tt.code.ID())
			}
			if err.Span.Start != tt.off {
				t.Errorf("offset = %d, want %d", err.Span.Start, tt.off)
			}
		})
	}
}

// Лишние '{' всегда дают SynUnclosedBlock, а не обрезанное дерево
func TestBraceBalance(t *testing.T) {
	base := `versioninfo { "a" "1" } world { solid { side { "k" "v" } } }`
	if _, err := build(t, base, kv.Options{}); err != nil {
		t.Fatalf("balanced input failed: %v", err)
	}
	for i := 0; i < len(base); i++ {
		if base[i] != '}' {
			continue
		}
		truncated := base[:i] + base[i+1:]
		_, err := build(t, truncated, kv.Options{})
		if err == nil || err.Code != diag.SynUnclosedBlock {
			t.Errorf("dropping '}' at %d: got %v, want SynUnclosedBlock", i, err)
		}
	}
}

func TestMaxDepth(t *testing.T) {
	nested := func(n int) string {
		return strings.Repeat("b {", n) + strings.Repeat("}", n)
	}
	if _, err := build(t, nested(3), kv.Options{MaxDepth: 3}); err != nil {
		t.Fatalf("depth 3 rejected: %v", err)
	}
	_, err := build(t, nested(4), kv.Options{MaxDepth: 3})
	if err == nil || err.Code != diag.SynNestingTooDeep {
		t.Fatalf("got %v, want SynNestingTooDeep", err)
	}
	if _, err := build(t, nested(kv.DefaultMaxDepth+1), kv.Options{}); err == nil {
		t.Fatal("default depth not enforced")
	}
	// явный стек: глубокая вложенность не трогает стек горутины
	doc, err := build(t, nested(100000), kv.Options{MaxDepth: 200000})
	if err != nil {
		t.Fatalf("deep nesting failed: %v", err)
	}
	depth := 0
	doc.Blocks[0].Walk(func(_ *kv.Node, d int) bool {
		if d > depth {
			depth = d
		}
		return true
	})
	if depth != 99999 {
		t.Fatalf("walk depth = %d", depth)
	}
}

func TestReporterReceivesDiagnostics(t *testing.T) {
	bag := diag.NewBag(8)
	_, err := build(t, "world {\n\"k\" \"v\"\n", kv.Options{Reporter: diag.BagReporter{Bag: bag}})
	if err == nil {
		t.Fatal("expected error")
	}
	if bag.Len() != 1 {
		t.Fatalf("got %d diagnostics", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.SynUnclosedBlock || len(d.Notes) != 1 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}

	// незакрытая строка репортится один раз (лексером)
	bag = diag.NewBag(8)
	if _, err := build(t, "world { \"k\" \"v", kv.Options{Reporter: diag.BagReporter{Bag: bag}}); err == nil {
		t.Fatal("expected error")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("unexpected diagnostics %+v", bag.Items())
	}
}

func TestBuildFromOffset(t *testing.T) {
	input := `first { "a" "1" } second { "b" "2" }`
	doc, err := build(t, input, kv.Options{Offset: uint32(strings.Index(input, "second"))})
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].Name != "second" {
		t.Fatalf("unexpected blocks %+v", doc.Blocks)
	}
}

func TestEscapedValues(t *testing.T) {
	doc, err := build(t, `e { "message" "say \"hi\"" "plain" "text" }`, kv.Options{})
	if err != nil {
		t.Fatal(err)
	}
	msg, _ := doc.Blocks[0].Get("message")
	if !msg.Escaped || msg.Raw != `say \"hi\"` || msg.String() != `say "hi"` {
		t.Fatalf("unexpected value %+v -> %q", msg, msg.String())
	}
	plain, _ := doc.Blocks[0].Get("plain")
	if allocs := testing.AllocsPerRun(100, func() { _ = plain.String() }); allocs != 0 {
		t.Fatalf("plain String() allocated %.1f times", allocs)
	}
}

// Значения — срезы исходного буфера
func TestValuesShareBuffer(t *testing.T) {
	fs := source.NewFileSet()
	buf := []byte(`b { "k" "value" }`)
	file := fs.Get(fs.AddVirtual("share.vmf", buf))
	doc, err := kv.Build(file, kv.Options{})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := doc.Blocks[0].Get("k")
	buf[9] = 'V'
	if v.String() != "Value" {
		t.Fatalf("value does not alias the buffer: %q", v.String())
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	doc, err := build(t, `a { b { c { } } d { } }`, kv.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	doc.Blocks[0].Walk(func(n *kv.Node, _ int) bool {
		names = append(names, n.Name)
		return n.Name != "b"
	})
	if got := strings.Join(names, ","); got != "a,b,d" {
		t.Fatalf("walk order = %s", got)
	}
}

func TestSpanInvariants(t *testing.T) {
	inputs := []string{
		"",
		`a { }`,
		"world\n{\n\t\"id\" \"1\"\n\tsolid\n\t{\n\t\tside { \"plane\" \"(0 0 0) (1 0 0) (1 1 0)\" }\n\t}\n}\nentity { \"id\" \"2\" }\n",
		`"quoted name" { k v "k2" "" nested { deeper { x y } } }`,
	}
	for _, in := range inputs {
		doc, err := build(t, in, kv.Options{})
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if err := testkit.CheckSpanInvariants(doc); err != nil {
			t.Errorf("%q: %v", in, err)
		}
		if err := testkit.CheckSharesBuffer(doc); err != nil {
			t.Errorf("%q: %v", in, err)
		}
	}
}
