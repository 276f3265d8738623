package engine

import (
	"errors"

	"github.com/dshills/selectword/internal/engine/buffer"
)

// Errors returned by engine operations.
var (
	// ErrOffsetOutOfRange indicates a cursor offset outside [0, Len()].
	ErrOffsetOutOfRange = buffer.ErrOffsetOutOfRange

	// ErrNoSelection indicates a command that needs a selection ran without one.
	ErrNoSelection = errors.New("no selection")

	// ErrSelectionTooShort indicates a shrink of a selection under two characters.
	ErrSelectionTooShort = errors.New("selection too short to shrink")

	// ErrNoChange indicates a select command left the selection as it was.
	ErrNoChange = errors.New("selection unchanged")
)
