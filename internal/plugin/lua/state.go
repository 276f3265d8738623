package lua

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Default limits for Lua state.
const (
	DefaultExecutionTimeout = 5 * time.Second // wall clock per DoFile/DoString
	DefaultInstructionLimit = 1_000_000       // host calls per execution
)

// State wraps gopher-lua with the sandbox and execution limits.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes access from
// Go code; Lua execution itself is single-threaded.
type State struct {
	L *lua.LState

	mu sync.Mutex

	// Configuration
	executionTimeout time.Duration
	instructionLimit int64
	output           io.Writer

	sandbox *Sandbox
	bridge  *Bridge
	module  *lua.LTable

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the wall clock limit for each execution.
// Zero disables the limit.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d >= 0 {
			s.executionTimeout = d
		}
	}
}

// WithInstructionLimit sets the maximum host calls per execution.
// Zero disables the limit.
func WithInstructionLimit(limit int64) StateOption {
	return func(s *State) {
		if limit >= 0 {
			s.instructionLimit = limit
		}
	}
}

// WithOutput sets where print writes. Defaults to os.Stdout.
func WithOutput(w io.Writer) StateOption {
	return func(s *State) {
		if w != nil {
			s.output = w
		}
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) (*State, error) {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
		instructionLimit: DefaultInstructionLimit,
		output:           os.Stdout,
	}

	for _, opt := range opts {
		opt(state)
	}

	// Create Lua state with limited libraries
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	state.L = L
	openSafeLibraries(L)

	state.sandbox = NewSandbox(L, state.instructionLimit, state.output)
	state.sandbox.Install()
	state.bridge = NewBridge(L)

	return state, nil
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	// Open base library (print, type, pairs, ipairs, etc.)
	lua.OpenBase(L)

	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Not opened: io, os, debug, package, channel, coroutine.
}

// DoFile executes a Lua file.
// Execution is synchronous - the call blocks until completion, error or
// cancellation of ctx.
func (s *State) DoFile(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	if err := s.execute(ctx, func() error { return s.L.DoFile(path) }); err != nil {
		return &ScriptError{Script: path, Err: err}
	}
	return nil
}

// DoString executes a Lua string.
// Execution is synchronous - the call blocks until completion, error or
// cancellation of ctx.
func (s *State) DoString(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	if err := s.execute(ctx, func() error { return s.L.DoString(code) }); err != nil {
		return &ScriptError{Script: "<string>", Err: err}
	}
	return nil
}

// execute runs fn under the execution limits and maps limit violations to
// their sentinel errors. Cancelling ctx stops the script at its next
// instruction.
func (s *State) execute(ctx context.Context, fn func() error) error {
	s.sandbox.ResetInstructionCount()

	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	err := doWithRecovery(fn)
	switch {
	case err == nil:
		return nil
	case s.sandbox.LimitExceeded():
		return fmt.Errorf("%w (%d calls)", ErrInstructionLimit, s.instructionLimit)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w after %s", ErrExecutionTimeout, s.executionTimeout)
	case ctx.Err() != nil:
		return fmt.Errorf("interrupted: %w", ctx.Err())
	}
	return err
}

// doWithRecovery executes a function with panic recovery.
func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// RegisterModule registers a global module table with the given functions
// and returns it. Registering an existing name adds to that module.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) *lua.LTable {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	mod, ok := s.L.GetGlobal(name).(*lua.LTable)
	if !ok {
		mod = s.L.NewTable()
		s.L.SetGlobal(name, mod)
	}
	s.L.SetFuncs(mod, funcs)
	return mod
}

// Sandbox returns the sandbox.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.L.Close()
	s.closed = true
	return nil
}
