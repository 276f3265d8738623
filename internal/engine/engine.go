package engine

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/selectword/internal/engine/buffer"
	"github.com/dshills/selectword/internal/selection"
)

// Re-export commonly used types for convenience.
type (
	// Span is a selected range with its text and positions.
	Span = selection.Span

	// Point represents a line/column position.
	Point = buffer.Point
)

// Engine is the selection host for one document. It combines the buffer,
// cursor and current selection into a thread-safe command API.
type Engine struct {
	mu sync.Mutex

	id  string
	buf *buffer.Buffer

	cursor     int
	sel        Span
	hasSel     bool
	steps      int
	expansions int

	// Configuration
	shrinkGuard   bool
	maxExpansions int
	tabWidth      int
	logger        Logger
}

// New creates an Engine over text.
func New(text string, opts ...Option) *Engine {
	e := newEngine(opts)
	e.buf = buffer.NewBufferFromString(text, buffer.WithTabWidth(e.tabWidth))
	return e
}

// NewFromReader creates an Engine from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := newEngine(opts)

	var err error
	e.buf, err = buffer.NewBufferFromReader(r, buffer.WithTabWidth(e.tabWidth))
	if err != nil {
		return nil, err
	}
	return e, nil
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		id:            uuid.New().String(),
		shrinkGuard:   true,
		maxExpansions: DefaultMaxExpansions,
		tabWidth:      DefaultTabWidth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ID returns the engine's unique identifier.
func (e *Engine) ID() string {
	return e.id
}

// ============================================================================
// Document
// ============================================================================

// Text returns the full document.
func (e *Engine) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Text()
}

// Len returns the number of characters in the document.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Len()
}

// Buffer returns the current document buffer. The buffer is never mutated;
// Reset installs a new one.
func (e *Engine) Buffer() *buffer.Buffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf
}

// Reset replaces the document. The cursor is clamped into the new text and
// the selection is cleared.
func (e *Engine) Reset(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.buf = buffer.NewBufferFromString(text, buffer.WithTabWidth(e.tabWidth))
	if e.cursor > e.buf.Len() {
		e.cursor = e.buf.Len()
	}
	e.clearLocked()
	e.trace("reset", "len=%d", e.buf.Len())
}

// Configure applies options to a live engine. The document, cursor and
// selection are kept. A new tab width rebuilds the buffer over the same text.
func (e *Engine) Configure(opts ...Option) {
	e.mu.Lock()
	defer e.mu.Unlock()

	oldTab := e.tabWidth
	for _, opt := range opts {
		opt(e)
	}
	if e.tabWidth != oldTab {
		e.buf = buffer.NewBufferFromString(e.buf.Text(), buffer.WithTabWidth(e.tabWidth))
		if e.hasSel {
			e.sel = selection.NewSpan(e.buf, e.sel.Start(), e.sel.End())
		}
	}
	e.trace("configure", "guard=%v max=%d tab=%d", e.shrinkGuard, e.maxExpansions, e.tabWidth)
}

// ============================================================================
// Cursor
// ============================================================================

// Cursor returns the cursor offset.
func (e *Engine) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// CursorPoint returns the cursor as a line/column position.
func (e *Engine) CursorPoint() Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.OffsetToPoint(e.cursor)
}

// SetCursor moves the cursor to offset and clears the selection.
func (e *Engine) SetCursor(offset int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if offset < 0 || offset > e.buf.Len() {
		return fmt.Errorf("cursor %d of %d: %w", offset, e.buf.Len(), ErrOffsetOutOfRange)
	}
	e.moveLocked(offset)
	return nil
}

// SetCursorPoint moves the cursor to a 0-indexed line and column. Columns
// past the end of the line land on the line end.
func (e *Engine) SetCursorPoint(line, column int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	offset, err := e.buf.PointToOffset(Point{Line: line, Column: column})
	if err != nil {
		return err
	}
	e.moveLocked(offset)
	return nil
}

// MoveCursor moves the cursor by delta characters, clamped to the document.
func (e *Engine) MoveCursor(delta int) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	offset := e.cursor + delta
	if offset < 0 {
		offset = 0
	} else if offset > e.buf.Len() {
		offset = e.buf.Len()
	}
	e.moveLocked(offset)
	return e.cursor
}

// MoveCursorLine moves the cursor by delta lines, keeping the column where
// the target line is long enough.
func (e *Engine) MoveCursorLine(delta int) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.buf.OffsetToPoint(e.cursor)
	p.Line += delta
	if p.Line < 0 {
		p.Line = 0
	} else if p.Line >= e.buf.LineCount() {
		p.Line = e.buf.LineCount() - 1
	}

	offset, err := e.buf.PointToOffset(p)
	if err == nil {
		e.moveLocked(offset)
	}
	return e.cursor
}

// MoveCursorToLineStart moves the cursor to the start of its line.
func (e *Engine) MoveCursorToLineStart() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	line := e.buf.OffsetToPoint(e.cursor).Line
	e.moveLocked(e.buf.LineStartOffset(line))
	return e.cursor
}

// MoveCursorToLineEnd moves the cursor to the end of its line.
func (e *Engine) MoveCursorToLineEnd() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	line := e.buf.OffsetToPoint(e.cursor).Line
	e.moveLocked(e.buf.LineEndOffset(line))
	return e.cursor
}

func (e *Engine) moveLocked(offset int) {
	e.cursor = offset
	e.clearLocked()
}

// ============================================================================
// Selection Commands
// ============================================================================

// Selection returns the current selection, if any.
func (e *Engine) Selection() (Span, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel, e.hasSel
}

// Steps returns the number of select and shrink commands applied since the
// selection was last cleared.
func (e *Engine) Steps() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.steps
}

// Select grows the selection.
//
// Without a selection the word nearest the cursor is selected. Otherwise the
// selection is extended to its enclosing block. ErrNoChange is returned when
// the selection cannot grow any further or the expansion limit is reached.
func (e *Engine) Select() (Span, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasSel || e.sel.Start() > e.sel.End() {
		span, err := selection.LocateWord(e.buf, e.cursor)
		if err != nil {
			return Span{}, err
		}
		e.setLocked(span)
		e.expansions = 0
		e.trace("select word", "span=%v", span)
		return span, nil
	}

	if e.maxExpansions > 0 && e.expansions >= e.maxExpansions {
		return e.sel, fmt.Errorf("%d expansions: %w", e.expansions, ErrNoChange)
	}

	span, err := selection.ExtendBlock(e.buf, e.sel)
	if err != nil {
		return Span{}, err
	}
	if span.Equal(e.sel) {
		return e.sel, ErrNoChange
	}

	e.setLocked(span)
	e.expansions++
	e.trace("extend block", "span=%v expansions=%d", span, e.expansions)
	return span, nil
}

// Shrink removes one character from each end of the selection.
//
// With the shrink guard on, selections shorter than two characters are
// rejected with ErrSelectionTooShort. Without it, the selection may become
// empty or inverted; the next Select then starts over from the cursor.
func (e *Engine) Shrink() (Span, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasSel {
		return Span{}, ErrNoSelection
	}
	if e.shrinkGuard && !selection.CanShrink(e.sel) {
		return e.sel, fmt.Errorf("length %d: %w", e.sel.End()-e.sel.Start(), ErrSelectionTooShort)
	}

	span, err := selection.Shrink(e.buf, e.sel)
	if err != nil {
		return Span{}, err
	}

	e.setLocked(span)
	if e.expansions > 0 {
		e.expansions--
	}
	e.trace("shrink", "span=%v", span)
	return span, nil
}

// Clear drops the selection and resets the step count.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearLocked()
}

func (e *Engine) setLocked(span Span) {
	e.sel = span
	e.hasSel = true
	e.steps++
}

func (e *Engine) clearLocked() {
	e.sel = Span{}
	e.hasSel = false
	e.steps = 0
	e.expansions = 0
}

func (e *Engine) trace(op, format string, args ...any) {
	if e.logger == nil {
		return
	}
	e.logger.Debug("engine %s %s: "+format, append([]any{e.id, op}, args...)...)
}
