package selection

import "fmt"

// Buffer is the read-only character sequence a span is computed against.
//
// Offsets are 0-indexed. CharAt is only called with 0 <= offset < Len().
// TextBetween and Position are only called with offsets in [0, Len()].
type Buffer interface {
	// Len returns the number of characters in the buffer.
	Len() int

	// CharAt returns the character at offset.
	CharAt(offset int) rune

	// TextBetween returns the characters in [start, end).
	TextBetween(start, end int) string

	// Position converts an offset to a 0-indexed line and column.
	Position(offset int) (line, column int)
}

// Position is a 0-indexed line and column pair.
type Position struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Extent is anything with half-open bounds, such as a Span or a host's
// selection.
type Extent interface {
	Start() int
	End() int
}

// scanner is the shared bounds-checked character access used by the
// algorithms. Reads outside the buffer return zero, which matches no
// delimiter.
type scanner struct {
	buf Buffer
	n   int
}

func newScanner(buf Buffer) scanner {
	return scanner{buf: buf, n: buf.Len()}
}

func (s scanner) at(offset int) rune {
	if offset < 0 || offset >= s.n {
		return 0
	}
	return s.buf.CharAt(offset)
}

// last returns the offset of the final character.
func (s scanner) last() int {
	return s.n - 1
}
