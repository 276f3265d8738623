package selection

import (
	"fmt"
	"reflect"
)

// Span is a half-open range [Start, End) into a buffer together with the
// text it covers and the line/column of each bound.
//
// Span is an immutable value type. The text is derived from the bounds when
// the span is built and there is no way to change one without the other.
type Span struct {
	start    int
	end      int
	text     string
	startPos Position
	endPos   Position
}

// NewSpan builds a span over buf for [start, end).
//
// The bounds are stored as given. When start >= end the text is empty; this
// is how an over-shrunk selection is represented. Offsets outside the buffer
// are clamped before text and positions are derived.
func NewSpan(buf Buffer, start, end int) Span {
	n := buf.Len()
	lo, hi := clampOffset(start, n), clampOffset(end, n)

	var text string
	if lo < hi {
		text = buf.TextBetween(lo, hi)
	}

	return Span{
		start:    start,
		end:      end,
		text:     text,
		startPos: position(buf, lo),
		endPos:   position(buf, hi),
	}
}

// Start returns the inclusive start offset.
func (s Span) Start() int {
	return s.start
}

// End returns the exclusive end offset.
func (s Span) End() int {
	return s.end
}

// Text returns the selected text.
func (s Span) Text() string {
	return s.text
}

// StartPosition returns the line/column of Start.
func (s Span) StartPosition() Position {
	return s.startPos
}

// EndPosition returns the line/column of End.
func (s Span) EndPosition() Position {
	return s.endPos
}

// IsEmpty returns true if the span selects no text.
func (s Span) IsEmpty() bool {
	return s.text == ""
}

// Len returns the number of selected characters.
func (s Span) Len() int {
	if s.IsEmpty() {
		return 0
	}
	return len([]rune(s.text))
}

// IsRectangular always returns false; only single-range selections exist.
func (s Span) IsRectangular() bool {
	return false
}

// Contains returns true if offset lies within [Start, End).
func (s Span) Contains(offset int) bool {
	return offset >= s.start && offset < s.end
}

// Equal returns true if both spans have the same bounds.
func (s Span) Equal(other Span) bool {
	return s.start == other.start && s.end == other.end
}

// String returns a representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("Span[%d:%d)%q", s.start, s.end, s.text)
}

func emptySpan() Span {
	return Span{}
}

func clampOffset(offset, n int) int {
	if offset < 0 {
		return 0
	}
	if offset > n {
		return n
	}
	return offset
}

func position(buf Buffer, offset int) Position {
	line, col := buf.Position(offset)
	return Position{Line: line, Column: col}
}

// checkBuffer validates the buffer argument shared by all algorithms.
func checkBuffer(buf Buffer) error {
	if isNil(buf) {
		return fmt.Errorf("nil buffer: %w", ErrInvalidArgument)
	}
	return nil
}

// isNil also catches a nil pointer stored in a non-nil interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// checkExtent validates a seed span against a buffer of length n.
func checkExtent(prev Extent, n int) error {
	if isNil(prev) {
		return fmt.Errorf("nil span: %w", ErrInvalidArgument)
	}
	start, end := prev.Start(), prev.End()
	if start < 0 || start > end || end > n {
		return fmt.Errorf("span [%d:%d) outside buffer of length %d: %w", start, end, n, ErrInvalidArgument)
	}
	return nil
}
