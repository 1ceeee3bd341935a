// Package diag defines the diagnostic model shared by the lexer, the block
// tree builder, typed extraction and the driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string form. Ranges:
//     LEX (1000), SYN (2000), EXT (3000), IO (4000).
//   - Message – short human oriented text.
//   - Primary – the source.Span pointing at the offending text.
//   - Notes – optional secondary spans, e.g. where an unclosed block opened.
//
// # Emitting diagnostics
//
// Producers talk to a Reporter and never to storage directly. ReportBuilder
// (NewReportBuilder, ReportError, ReportWarning) lets callers chain WithNote
// before Emit. BagReporter collects into a Bag, which supports sorting,
// filtering and deduplication; DedupReporter drops repeated entries.
//
// Package diag does no terminal formatting. Rendering lives in
// internal/diagfmt; FormatShort is the one-line form used by tests and the
// CLI "short" output.
package diag
