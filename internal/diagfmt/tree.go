package diagfmt

import (
	"fmt"
	"io"

	"vmfkit/internal/kv"
	"vmfkit/internal/source"
)

// FormatTreePretty печатает дерево блоков с префиксами ├─ / └─.
// Пары выводятся как key = "value", блоки как name (span).
func FormatTreePretty(w io.Writer, doc *kv.Document, fs *source.FileSet) error {
	header := "<buffer>"
	if doc.File != nil {
		header = doc.File.FormatPath("auto", "")
	}
	if _, err := fmt.Fprintf(w, "%s (%d blocks)\n", header, len(doc.Blocks)); err != nil {
		return err
	}
	tw := &treeWriter{w: w, fs: fs}
	for i, n := range doc.Blocks {
		tw.block(n, "", i == len(doc.Blocks)-1)
	}
	return tw.err
}

type treeWriter struct {
	w   io.Writer
	fs  *source.FileSet
	err error
}

func (t *treeWriter) line(prefix string, last bool, label string) {
	if t.err != nil {
		return
	}
	branch := "├─ "
	if last {
		branch = "└─ "
	}
	_, t.err = fmt.Fprintf(t.w, "%s%s%s\n", prefix, branch, label)
}

func (t *treeWriter) block(n *kv.Node, prefix string, last bool) {
	t.line(prefix, last, fmt.Sprintf("%s (span: %s)", n.Name, formatSpan(n.Span, t.fs)))
	child := prefix + "│  "
	if last {
		child = prefix + "   "
	}
	for i, e := range n.Entries {
		isLast := i == len(n.Entries)-1
		if e.Kind == kv.EntryBlock {
			t.block(e.Block, child, isLast)
			continue
		}
		t.line(child, isLast, fmt.Sprintf("%s = %q", e.Key, e.Value.String()))
	}
}
