package viewport

// MarginConfig holds scroll margin configuration.
type MarginConfig struct {
	Top    int // Lines to keep above cursor
	Bottom int // Lines to keep below cursor
	Left   int // Columns to keep left of cursor
	Right  int // Columns to keep right of cursor
}

// DefaultMargins returns sensible default margins.
func DefaultMargins() MarginConfig {
	return MarginConfig{Top: 5, Bottom: 5, Left: 10, Right: 10}
}

// UniformMargins returns n lines above and below and n columns on
// either side.
func UniformMargins(n int) MarginConfig {
	if n <= 0 {
		return NoMargins()
	}
	return MarginConfig{Top: n, Bottom: n, Left: n, Right: n}
}

// NoMargins returns zero margins (cursor can go to edge).
func NoMargins() MarginConfig {
	return MarginConfig{}
}

// maxMarginRatio limits margins to 1/3 of viewport dimension to ensure
// there's always usable space in the center.
const maxMarginRatio = 3

// effectiveMargins clamps the margins to a third of the viewport size.
// Callers hold the lock.
func (v *Viewport) effectiveMargins() MarginConfig {
	m := v.margins

	maxVertical := v.height / maxMarginRatio
	m.Top = min(max(m.Top, 0), maxVertical)
	m.Bottom = min(max(m.Bottom, 0), maxVertical)

	maxHorizontal := v.width / maxMarginRatio
	m.Left = min(max(m.Left, 0), maxHorizontal)
	m.Right = min(max(m.Right, 0), maxHorizontal)

	return m
}
