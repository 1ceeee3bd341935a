// Package vmf parses Valve Map Format files into typed values without
// copying the input text.
//
// Parsing runs in three stages over one buffer: the lexer yields tokens that
// are views into the buffer, internal/kv builds an ordered block tree, and
// the extractors in this package turn each top-level block into a Value.
// Parse and the per-type fragment parsers (ParseWorld, ParseSide, ...) share
// the same pipeline.
//
//	values, err := vmf.Parse(buf)
//	for _, v := range values {
//		switch v := v.(type) {
//		case *vmf.World:
//			fmt.Println(len(v.Solids))
//		case *vmf.Unknown:
//			fmt.Println("skipped", v.Node.Name)
//		}
//	}
//
// Every failure is an *Error carrying an ErrorKind, usable with errors.Is:
//
//	if errors.Is(err, vmf.ErrMissingField) { ... }
package vmf
