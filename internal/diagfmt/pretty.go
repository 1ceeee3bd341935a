package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"vmfkit/internal/diag"
	"vmfkit/internal/source"
)

const tabWidth = 4

type palette struct {
	err    *color.Color
	warn   *color.Color
	info   *color.Color
	note   *color.Color
	path   *color.Color
	gutter *color.Color
	caret  *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue),
		path:   mk(color.Bold),
		gutter: mk(color.FgHiBlack),
		caret:  mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w) //nolint:errcheck
		}
		prettyOne(w, &d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	if int(d.Primary.File) >= fs.Len() {
		fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity).Sprint(d.Severity.String()), d.Code.ID(), d.Message) //nolint:errcheck
		return
	}
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s: %s %s: %s\n", //nolint:errcheck
		p.path.Sprintf("%s:%d:%d", formatPath(f, fs, opts.PathMode), start.Line, start.Col),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.ID(),
		d.Message,
	)
	writeSnippet(w, f, start, end, int(opts.Context), p)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		if int(n.Span.File) >= fs.Len() {
			fmt.Fprintf(w, "  %s: %s\n", p.note.Sprint("note"), n.Msg) //nolint:errcheck
			continue
		}
		nf := fs.Get(n.Span.File)
		pos := nf.Position(n.Span.Start)
		fmt.Fprintf(w, "  %s: %s:%d:%d: %s\n", //nolint:errcheck
			p.note.Sprint("note"), formatPath(nf, fs, opts.PathMode), pos.Line, pos.Col, n.Msg)
	}
}

// writeSnippet prints up to context lines before the primary line, the line
// itself and a caret underline. Multi-line spans are underlined to the end of
// the first line.
func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, context int, p palette) {
	line := f.GetLine(start.Line)
	if line == "" && start.Col <= 1 {
		return
	}
	first := int(start.Line) - max(context, 0)
	if first < 1 {
		first = 1
	}
	gw := len(fmt.Sprint(start.Line))

	for ln := first; ln < int(start.Line); ln++ {
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gw, ln), expandTabs(f.GetLine(uint32(ln)))) //nolint:errcheck,gosec
	}
	fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gw, start.Line), expandTabs(line)) //nolint:errcheck

	from := min(int(start.Col)-1, len(line))
	to := len(line)
	if end.Line == start.Line {
		to = min(int(end.Col)-1, len(line))
	}
	pad := runewidth.StringWidth(expandTabs(line[:from]))
	width := 1
	if to > from {
		width = max(runewidth.StringWidth(expandTabs(line[from:to])), 1)
	}
	marks := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gw, ""), strings.Repeat(" ", pad), p.caret.Sprint(marks)) //nolint:errcheck
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
