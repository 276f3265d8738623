// Package selection computes text selections over a read-only character
// buffer.
//
// Three independent algorithms share the Span value type:
//
//   - LocateWord selects the word nearest a cursor offset
//   - ExtendBlock grows a span outward by one lexical shell: a quote pair,
//     a bracket pair, or a whole line
//   - Shrink removes one character from each end of a span
//
// Each call is a pure function of a buffer snapshot and a seed. No state is
// retained between calls, so chaining is done by feeding the previous Span
// back in:
//
//	span, _ := selection.LocateWord(buf, cursor)   // "back"
//	span, _ = selection.ExtendBlock(buf, span)     // "\"Get back to work!\""
//	span, _ = selection.ExtendBlock(buf, span)     // "(\"Get back to work!\")"
//	span, _ = selection.Shrink(buf, span)          // "\"Get back to work!\""
//
// Characters are runes. Offsets are rune indexes into the buffer and spans
// are half-open: [Start, End).
//
// # Thread Safety
//
// Span is an immutable value type and safe for concurrent use. The
// algorithms never retain the buffer, but the buffer must not change while a
// call is running.
package selection
