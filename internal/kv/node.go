package kv

import "vmfkit/internal/source"

type EntryKind uint8

const (
	EntryPair EntryKind = iota
	EntryBlock
)

func (k EntryKind) String() string {
	if k == EntryBlock {
		return "block"
	}
	return "pair"
}

// Entry is either a key/value pair or a nested block. For blocks Key is the
// block name and Block is non-nil.
type Entry struct {
	Kind    EntryKind
	Key     string
	KeySpan source.Span
	Value   Value
	Block   *Node
}

// Node is a named block with its entries in source order.
type Node struct {
	Name     string
	NameSpan source.Span
	// Span covers the name through the closing brace.
	Span    source.Span
	Entries []Entry
}

// Document is the top-level sequence of blocks of one buffer.
type Document struct {
	File   *source.File
	Blocks []*Node
}

// Len returns the number of entries.
func (n *Node) Len() int {
	return len(n.Entries)
}

// Get returns the first pair named key.
func (n *Node) Get(key string) (Value, bool) {
	for i := range n.Entries {
		e := &n.Entries[i]
		if e.Kind == EntryPair && e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// All returns every pair named key in order.
func (n *Node) All(key string) []Value {
	var out []Value
	for i := range n.Entries {
		e := &n.Entries[i]
		if e.Kind == EntryPair && e.Key == key {
			out = append(out, e.Value)
		}
	}
	return out
}

// Child returns the first nested block named name, or nil.
func (n *Node) Child(name string) *Node {
	for i := range n.Entries {
		e := &n.Entries[i]
		if e.Kind == EntryBlock && e.Key == name {
			return e.Block
		}
	}
	return nil
}

// Blocks returns every nested block named name in order.
func (n *Node) Blocks(name string) []*Node {
	var out []*Node
	for i := range n.Entries {
		e := &n.Entries[i]
		if e.Kind == EntryBlock && e.Key == name {
			out = append(out, e.Block)
		}
	}
	return out
}

// Pairs returns all pair entries in order.
func (n *Node) Pairs() []Entry {
	out := make([]Entry, 0, len(n.Entries))
	for _, e := range n.Entries {
		if e.Kind == EntryPair {
			out = append(out, e)
		}
	}
	return out
}

// Walk visits n and its nested blocks depth-first, pre-order. Returning false
// from fn skips the children of that node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	type item struct {
		node  *Node
		depth int
	}
	stack := []item{{n, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(it.node, it.depth) {
			continue
		}
		for i := len(it.node.Entries) - 1; i >= 0; i-- {
			if b := it.node.Entries[i].Block; b != nil {
				stack = append(stack, item{b, it.depth + 1})
			}
		}
	}
}
