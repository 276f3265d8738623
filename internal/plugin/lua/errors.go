package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrInstructionLimit is returned when a script makes more host calls
	// than its instruction limit allows.
	ErrInstructionLimit = errors.New("lua instruction limit exceeded")
)

// ScriptError reports a failure while running a script.
type ScriptError struct {
	Script string // file path, or "<string>" for inline code
	Err    error
}

func (e *ScriptError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("script %s: %v", e.Script, e.Err)
}

func (e *ScriptError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
