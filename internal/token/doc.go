// Package token defines lexical token kinds for VMF sources.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - For String tokens Text excludes the surrounding quotes and Span covers
//     the quotes as well.
//   - Whitespace and // comments never reach the token stream.
package token
