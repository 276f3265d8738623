package engine

import (
	"github.com/dshills/selectword/internal/engine/buffer"
)

// Default configuration values.
const (
	DefaultTabWidth      = buffer.DefaultTabWidth
	DefaultMaxExpansions = 0
)

// Logger receives debug traces of engine commands.
type Logger interface {
	Debug(msg string, args ...any)
}

// Option configures an Engine during creation.
type Option func(*Engine)

// WithShrinkGuard controls whether Shrink refuses selections shorter than
// two characters. The guard is on by default.
func WithShrinkGuard(enabled bool) Option {
	return func(e *Engine) {
		e.shrinkGuard = enabled
	}
}

// WithMaxExpansions caps the number of consecutive ExtendBlock steps a
// selection may take. Zero means unlimited.
func WithMaxExpansions(max int) Option {
	return func(e *Engine) {
		if max >= 0 {
			e.maxExpansions = max
		}
	}
}

// WithTabWidth sets the tab width of the underlying buffer.
func WithTabWidth(width int) Option {
	return func(e *Engine) {
		if width > 0 {
			e.tabWidth = width
		}
	}
}

// WithLogger sets the logger used for command traces.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}
