// Package kv builds the generic block tree of a VMF buffer.
//
// The grammar is
//
//	block := NAME '{' entry* '}'
//	entry := pair | block
//	pair  := KEY VALUE
//
// Only blocks are allowed at top level. Entries keep source order and
// repeated keys or block names are preserved: a Node is an ordered multimap,
// not a map.
//
// Every string in the tree (names, keys, raw values) is a view into the
// source.File text. The tree is valid only while the file buffer is alive and
// unmodified.
//
// The builder works over an explicit stack; nesting is bounded by
// Options.MaxDepth instead of the goroutine stack.
package kv
