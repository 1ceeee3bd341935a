// Package testkit holds structural checks shared by parser tests.
package testkit

import (
	"fmt"
	"unsafe"

	"fortio.org/safecast"

	"vmfkit/internal/kv"
	"vmfkit/internal/source"
)

// CheckSpanInvariants runs the span invariants on a built document:
// every block span is non-empty and inside the buffer, names and entries lie
// within their block, and siblings appear in source order without overlap.
func CheckSpanInvariants(doc *kv.Document) error {
	if doc == nil || doc.File == nil {
		return fmt.Errorf("nil document or file")
	}
	limit, err := safecast.Conv[uint32](len(doc.File.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	whole := source.Span{File: doc.File.ID, Start: 0, End: limit}
	var prev uint32
	for i, n := range doc.Blocks {
		if n.Span.Start < prev {
			return fmt.Errorf("block %d (%s) starts at %d before previous end %d", i, n.Name, n.Span.Start, prev)
		}
		if err := checkNode(n, whole, doc.File.ID); err != nil {
			return err
		}
		prev = n.Span.End
	}
	return nil
}

func checkNode(n *kv.Node, parent source.Span, file source.FileID) error {
	sp := n.Span
	if sp.End <= sp.Start {
		return fmt.Errorf("block %s: empty span %v", n.Name, sp)
	}
	if sp.File != file {
		return fmt.Errorf("block %s: span file mismatch: got=%d want=%d", n.Name, sp.File, file)
	}
	if !inside(sp, parent) {
		return fmt.Errorf("block %s: span %v is outside parent %v", n.Name, sp, parent)
	}
	if !inside(n.NameSpan, sp) || n.NameSpan.Start != sp.Start {
		return fmt.Errorf("block %s: name span %v does not open block span %v", n.Name, n.NameSpan, sp)
	}

	// записи идут строго после имени и не пересекаются
	prev := n.NameSpan.End
	for i, e := range n.Entries {
		if e.KeySpan.Start < prev {
			return fmt.Errorf("block %s: entry %d (%s) overlaps previous entry", n.Name, i, e.Key)
		}
		if !inside(e.KeySpan, sp) {
			return fmt.Errorf("block %s: key %s span %v outside block", n.Name, e.Key, e.KeySpan)
		}
		switch e.Kind {
		case kv.EntryBlock:
			if e.Block == nil {
				return fmt.Errorf("block %s: entry %d has no child block", n.Name, i)
			}
			if err := checkNode(e.Block, sp, file); err != nil {
				return err
			}
			prev = e.Block.Span.End
		default:
			if !inside(e.Value.Span, sp) || e.Value.Span.Start < e.KeySpan.End {
				return fmt.Errorf("block %s: value of %s span %v misplaced", n.Name, e.Key, e.Value.Span)
			}
			prev = e.Value.Span.End
		}
	}
	return nil
}

func inside(sp, outer source.Span) bool {
	return sp.File == outer.File && sp.Start >= outer.Start && sp.End <= outer.End
}

// CheckSharesBuffer verifies that block names, keys and raw values point into
// the file text instead of holding copies. Names and keys containing \"
// are unescaped on build and are not checked.
func CheckSharesBuffer(doc *kv.Document) error {
	if doc == nil || doc.File == nil {
		return fmt.Errorf("nil document or file")
	}
	text := doc.File.Text
	if len(text) == 0 {
		return nil
	}
	lo := uintptr(unsafe.Pointer(unsafe.StringData(text)))
	hi := lo + uintptr(len(text))
	owned := func(s string) bool {
		if s == "" {
			return true
		}
		p := uintptr(unsafe.Pointer(unsafe.StringData(s)))
		return p >= lo && p+uintptr(len(s)) <= hi
	}
	spanned := func(s string, sp source.Span) bool {
		// только для ключей без экранирования: длина совпадает с исходником с кавычками или без
		n := int(sp.End - sp.Start)
		return len(s) == n || len(s) == n-2
	}
	var bad error
	fail := func(err error) bool {
		if bad == nil {
			bad = err
		}
		return false
	}
	for _, root := range doc.Blocks {
		root.Walk(func(n *kv.Node, _ int) bool {
			if spanned(n.Name, n.NameSpan) && !owned(n.Name) {
				return fail(fmt.Errorf("block name %q is a copy", n.Name))
			}
			for _, e := range n.Entries {
				if spanned(e.Key, e.KeySpan) && !owned(e.Key) {
					return fail(fmt.Errorf("key %q in %s is a copy", e.Key, n.Name))
				}
				if e.Kind == kv.EntryPair && !owned(e.Value.Raw) {
					return fail(fmt.Errorf("value of %q in %s is a copy", e.Key, n.Name))
				}
			}
			return true
		})
		if bad != nil {
			return bad
		}
	}
	return nil
}
