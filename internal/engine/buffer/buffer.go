package buffer

import (
	"errors"
	"fmt"
	"io"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrLineOutOfRange   = errors.New("line out of range")
)

// DefaultTabWidth is the display width of a tab when none is configured.
const DefaultTabWidth = 4

// Buffer is an immutable rune sequence with a line index.
// It satisfies selection.Buffer.
type Buffer struct {
	runes    []rune
	lines    lineIndex
	tabWidth int
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithTabWidth sets the display width of a tab character.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// NewBufferFromString creates a buffer holding s.
// Invalid UTF-8 sequences become utf8.RuneError.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	runes := []rune(s)
	b := &Buffer{
		runes:    runes,
		lines:    computeLineIndex(runes),
		tabWidth: DefaultTabWidth,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromReader creates a buffer from everything r yields.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading buffer content: %w", err)
	}
	return NewBufferFromString(string(data), opts...), nil
}

// Text returns the entire content.
func (b *Buffer) Text() string {
	return string(b.runes)
}

// Len returns the number of runes.
func (b *Buffer) Len() int {
	return len(b.runes)
}

// IsEmpty returns true if the buffer holds no text.
func (b *Buffer) IsEmpty() bool {
	return len(b.runes) == 0
}

// CharAt returns the rune at offset, or 0 if offset is outside the buffer.
func (b *Buffer) CharAt(offset int) rune {
	if offset < 0 || offset >= len(b.runes) {
		return 0
	}
	return b.runes[offset]
}

// TextBetween returns the text in [start, end).
// Bounds are clamped to the buffer; an inverted range yields "".
func (b *Buffer) TextBetween(start, end int) string {
	start, end = b.clamp(start), b.clamp(end)
	if start >= end {
		return ""
	}
	return string(b.runes[start:end])
}

// Position converts an offset to a 0-indexed line and column.
func (b *Buffer) Position(offset int) (line, column int) {
	p := b.OffsetToPoint(offset)
	return p.Line, p.Column
}

// OffsetToPoint converts an offset to a Point.
// Offsets outside [0, Len()] are clamped.
func (b *Buffer) OffsetToPoint(offset int) Point {
	offset = b.clamp(offset)
	line := b.lines.lineOf(offset)
	return Point{Line: line, Column: offset - b.lines.start(line)}
}

// PointToOffset converts a Point to an offset.
// A column past the end of its line resolves to the line end.
func (b *Buffer) PointToOffset(p Point) (int, error) {
	if p.Line < 0 || p.Line >= b.lines.count() {
		return 0, fmt.Errorf("line %d of %d: %w", p.Line, b.lines.count(), ErrLineOutOfRange)
	}
	if p.Column < 0 {
		return 0, fmt.Errorf("column %d: %w", p.Column, ErrOffsetOutOfRange)
	}

	start := b.lines.start(p.Line)
	end := b.LineEndOffset(p.Line)
	if start+p.Column > end {
		return end, nil
	}
	return start + p.Column, nil
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	return b.lines.count()
}

// LineStartOffset returns the offset of the first rune of line.
// Lines outside the buffer are clamped.
func (b *Buffer) LineStartOffset(line int) int {
	return b.lines.start(b.clampLine(line))
}

// LineEndOffset returns the offset just before the line's '\n', or Len()
// for the last line.
func (b *Buffer) LineEndOffset(line int) int {
	line = b.clampLine(line)
	if line+1 < b.lines.count() {
		return b.lines.start(line+1) - 1
	}
	return len(b.runes)
}

// LineText returns the text of line without its '\n'.
func (b *Buffer) LineText(line int) string {
	return b.TextBetween(b.LineStartOffset(line), b.LineEndOffset(line))
}

// TabWidth returns the configured display width of a tab.
func (b *Buffer) TabWidth() int {
	return b.tabWidth
}

func (b *Buffer) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(b.runes) {
		return len(b.runes)
	}
	return offset
}

func (b *Buffer) clampLine(line int) int {
	if line < 0 {
		return 0
	}
	if line >= b.lines.count() {
		return b.lines.count() - 1
	}
	return line
}
