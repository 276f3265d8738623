// Package viewport tracks which part of a document is visible on screen.
package viewport

import "sync"

// Viewport represents the visible portion of the buffer.
type Viewport struct {
	mu sync.RWMutex

	// Position in buffer (first visible line and display column)
	topLine    int
	leftColumn int

	// Size in screen cells
	width  int
	height int

	// Scroll margins (keep cursor this far from edges)
	margins MarginConfig

	// Number of lines in the buffer (0 for unknown)
	lineCount int
}

// NewViewport creates a viewport with the given size and default margins.
// Width and height are clamped to a minimum of 1.
func NewViewport(width, height int) *Viewport {
	v := &Viewport{margins: DefaultMargins()}
	v.width, v.height = clampSize(width, height)
	return v
}

func clampSize(width, height int) (int, int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// TopLine returns the first visible line.
func (v *Viewport) TopLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine
}

// BottomLine returns the last visible line.
func (v *Viewport) BottomLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bottomLine()
}

func (v *Viewport) bottomLine() int {
	bottom := v.topLine + v.height - 1
	if v.lineCount > 0 && bottom > v.lineCount-1 {
		bottom = v.lineCount - 1
	}
	return bottom
}

// LeftColumn returns the first visible display column.
func (v *Viewport) LeftColumn() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.leftColumn
}

// Resize updates the viewport size.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width, v.height = clampSize(width, height)
}

// SetLineCount sets the number of lines in the buffer. The top line is
// clamped into the new range.
func (v *Viewport) SetLineCount(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.lineCount = n
	if n > 0 && v.topLine >= n {
		v.topLine = n - 1
	}
}

// SetMargins sets the scroll margins.
func (v *Viewport) SetMargins(m MarginConfig) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.margins = m
}

// IsPositionVisible returns true if the line and display column are on
// screen.
func (v *Viewport) IsPositionVisible(line, col int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line >= v.topLine && line < v.topLine+v.height &&
		col >= v.leftColumn && col < v.leftColumn+v.width
}

// BufferToScreen converts a line and display column to a screen row and
// column. The result may be off screen.
func (v *Viewport) BufferToScreen(line, col int) (row, screenCol int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line - v.topLine, col - v.leftColumn
}

// ScrollBy scrolls by delta lines. The top line stays within the
// document.
func (v *Viewport) ScrollBy(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.topLine = v.clampTop(v.topLine + delta)
}

func (v *Viewport) clampTop(line int) int {
	if v.lineCount > 0 && line > v.lineCount-1 {
		line = v.lineCount - 1
	}
	if line < 0 {
		line = 0
	}
	return line
}

// ScrollToReveal scrolls minimally to reveal a position, keeping the
// margins around it where the viewport is large enough.
// Returns true if scrolling occurred.
func (v *Viewport) ScrollToReveal(line, col int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	m := v.effectiveMargins()
	top, left := v.topLine, v.leftColumn

	// Vertical scroll
	if line < top+m.Top {
		top = line - m.Top
	} else if line > top+v.height-1-m.Bottom {
		top = line - v.height + 1 + m.Bottom
	}
	top = v.clampTop(top)

	// Horizontal scroll
	if screenCol := col - left; screenCol < m.Left {
		left = col - m.Left
	} else if screenCol > v.width-1-m.Right {
		left = col - v.width + 1 + m.Right
	}
	if left < 0 {
		left = 0
	}

	moved := top != v.topLine || left != v.leftColumn
	v.topLine, v.leftColumn = top, left
	return moved
}

// PageSize returns the number of lines a page scroll moves: the height
// minus two lines of overlap, and at least one.
func (v *Viewport) PageSize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.height > 2 {
		return v.height - 2
	}
	return 1
}
