package lua

import (
	"io"
	"strings"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState

	// Instruction limiting
	instructionLimit int64
	instructionCount int64
	limitExceeded    atomic.Bool

	output io.Writer
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState, instructionLimit int64, output io.Writer) *Sandbox {
	return &Sandbox{
		L:                L,
		instructionLimit: instructionLimit,
		output:           output,
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	dangerousFuncs := []string{
		"dofile",     // Load and execute file
		"loadfile",   // Load file as function
		"load",       // Load string as function
		"loadstring", // Load string as function (deprecated but may exist)
	}
	for _, name := range dangerousFuncs {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installPrint()
	s.installSafeRequire()
}

// installPrint replaces print so output goes to the sandbox writer.
func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, 0, top)
		for i := 1; i <= top; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		_, _ = io.WriteString(s.output, strings.Join(parts, "\t")+"\n")
		return 0
	}))
}

// installSafeRequire installs a require that resolves only the opened
// standard libraries and the selectword module. The package library is never
// opened, so nothing can be loaded from disk.
func (s *Sandbox) installSafeRequire() {
	safeModules := map[string]bool{
		"string":     true,
		"table":      true,
		"math":       true,
		"selectword": true,
	}

	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)
		if safeModules[modName] {
			if mod := L.GetGlobal(modName); mod != lua.LNil {
				L.Push(mod)
				return 1
			}
		}
		L.RaiseError("module %q is not available", modName)
		return 0 // unreachable, but required for Go compiler
	}))
}

// ResetInstructionCount resets the instruction counter.
func (s *Sandbox) ResetInstructionCount() {
	atomic.StoreInt64(&s.instructionCount, 0)
	s.limitExceeded.Store(false)
}

// InstructionCount returns the current instruction count.
func (s *Sandbox) InstructionCount() int64 {
	return atomic.LoadInt64(&s.instructionCount)
}

// IncrementInstructions adds to the instruction count and returns true if limit exceeded.
func (s *Sandbox) IncrementInstructions(n int64) bool {
	if s.instructionLimit <= 0 {
		return false
	}
	count := atomic.AddInt64(&s.instructionCount, n)
	return count > s.instructionLimit
}

// LimitExceeded reports whether the current execution hit the limit.
func (s *Sandbox) LimitExceeded() bool {
	return s.limitExceeded.Load()
}

// charge counts one host call and raises a Lua error once the limit is hit.
func (s *Sandbox) charge(L *lua.LState) {
	if s.IncrementInstructions(1) {
		s.limitExceeded.Store(true)
		L.RaiseError("%s", ErrInstructionLimit.Error())
	}
}
