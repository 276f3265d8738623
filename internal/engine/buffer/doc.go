// Package buffer provides the immutable character buffer that selections are
// computed against.
//
// A Buffer holds the document as runes plus an index of line starts, so that
// both random character access and offset/line conversion are cheap:
//
//	buf := buffer.NewBufferFromString("Hello,\nWorld!")
//
//	buf.Len()            // 13
//	buf.CharAt(7)        // 'W'
//	buf.TextBetween(7, 12) // "World"
//	buf.OffsetToPoint(8) // (1:1)
//
// Position Types:
//
//   - Offsets are rune indexes in [0, Len()]; Len() is end of buffer
//   - Point is a 0-indexed line and column, column counted in runes
//
// Line endings are kept verbatim. Only '\n' starts a new line; a '\r' before
// it stays part of the preceding line.
//
// Thread Safety:
//
// A Buffer never changes after construction and is safe for concurrent use.
// Replacing a document means building a new Buffer.
package buffer
