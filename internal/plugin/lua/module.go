package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/selectword/internal/engine"
	"github.com/dshills/selectword/internal/engine/buffer"
	"github.com/dshills/selectword/internal/selection"
)

// ModuleName is the global name of the selection module.
const ModuleName = "selectword"

// selectwordModule binds the selection API to a state.
type selectwordModule struct {
	state *State
	eng   *engine.Engine
}

// OpenSelectword installs the selectword module. The pure functions are
// always available; the document commands are added when eng is not nil.
func (s *State) OpenSelectword(eng *engine.Engine) {
	m := &selectwordModule{state: s, eng: eng}

	funcs := map[string]lua.LGFunction{
		"locate_word":  m.locateWord,
		"extend_block": m.extendBlock,
		"shrink_span":  m.shrinkSpan,
	}
	if eng != nil {
		funcs["text"] = m.text
		funcs["cursor"] = m.cursor
		funcs["set_cursor"] = m.setCursor
		funcs["move_cursor"] = m.moveCursor
		funcs["select"] = m.selectCmd
		funcs["shrink"] = m.shrink
		funcs["clear"] = m.clear
		funcs["selection"] = m.selection
		funcs["steps"] = m.steps
	}

	mod := s.RegisterModule(ModuleName, funcs)

	s.mu.Lock()
	s.module = mod
	s.mu.Unlock()
}

// SetConfig exposes settings to scripts as selectword.config.
func (s *State) SetConfig(settings map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.module == nil {
		s.module = s.L.NewTable()
		s.L.SetGlobal(ModuleName, s.module)
	}
	s.module.RawSetString("config", s.bridge.ToLuaValue(settings))
}

// ============================================================================
// Pure functions
// ============================================================================

func (m *selectwordModule) locateWord(L *lua.LState) int {
	m.state.sandbox.charge(L)
	buf := buffer.NewBufferFromString(L.CheckString(1))
	span, err := selection.LocateWord(buf, L.CheckInt(2))
	return m.pushSpan(L, span, err)
}

func (m *selectwordModule) extendBlock(L *lua.LState) int {
	m.state.sandbox.charge(L)
	buf := buffer.NewBufferFromString(L.CheckString(1))
	span, err := selection.ExtendBlock(buf, m.spanArg(L, buf, 2))
	return m.pushSpan(L, span, err)
}

func (m *selectwordModule) shrinkSpan(L *lua.LState) int {
	m.state.sandbox.charge(L)
	buf := buffer.NewBufferFromString(L.CheckString(1))
	span, err := selection.Shrink(buf, m.spanArg(L, buf, 2))
	return m.pushSpan(L, span, err)
}

// ============================================================================
// Document commands
// ============================================================================

func (m *selectwordModule) text(L *lua.LState) int {
	m.state.sandbox.charge(L)
	L.Push(lua.LString(m.eng.Text()))
	return 1
}

func (m *selectwordModule) cursor(L *lua.LState) int {
	m.state.sandbox.charge(L)
	L.Push(lua.LNumber(m.eng.Cursor()))
	return 1
}

func (m *selectwordModule) setCursor(L *lua.LState) int {
	m.state.sandbox.charge(L)
	if err := m.eng.SetCursor(L.CheckInt(1)); err != nil {
		return pushError(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

func (m *selectwordModule) moveCursor(L *lua.LState) int {
	m.state.sandbox.charge(L)
	L.Push(lua.LNumber(m.eng.MoveCursor(L.CheckInt(1))))
	return 1
}

func (m *selectwordModule) selectCmd(L *lua.LState) int {
	m.state.sandbox.charge(L)
	span, err := m.eng.Select()
	return m.pushSpan(L, span, err)
}

func (m *selectwordModule) shrink(L *lua.LState) int {
	m.state.sandbox.charge(L)
	span, err := m.eng.Shrink()
	return m.pushSpan(L, span, err)
}

func (m *selectwordModule) clear(L *lua.LState) int {
	m.state.sandbox.charge(L)
	m.eng.Clear()
	return 0
}

func (m *selectwordModule) selection(L *lua.LState) int {
	m.state.sandbox.charge(L)
	span, ok := m.eng.Selection()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(m.spanTable(span))
	return 1
}

func (m *selectwordModule) steps(L *lua.LState) int {
	m.state.sandbox.charge(L)
	L.Push(lua.LNumber(m.eng.Steps()))
	return 1
}

// ============================================================================
// Helpers
// ============================================================================

// spanArg reads the span at argument n. It is either a span table, as
// returned by locate_word, or start and stop offsets at n and n+1.
func (m *selectwordModule) spanArg(L *lua.LState, buf *buffer.Buffer, n int) selection.Span {
	if L.Get(n).Type() != lua.LTTable {
		return selection.NewSpan(buf, L.CheckInt(n), L.CheckInt(n+1))
	}

	fields, _ := m.state.bridge.ToGoValue(L.Get(n)).(map[string]any)
	start, okStart := fields["start"].(int64)
	stop, okStop := fields["stop"].(int64)
	if !okStart || !okStop {
		L.ArgError(n, "span table needs integer start and stop")
	}
	return selection.NewSpan(buf, int(start), int(stop))
}

// pushSpan pushes the span table, or nil and the error message.
func (m *selectwordModule) pushSpan(L *lua.LState, span selection.Span, err error) int {
	if err != nil {
		return pushError(L, err)
	}
	L.Push(m.spanTable(span))
	return 1
}

func (m *selectwordModule) spanTable(span selection.Span) lua.LValue {
	start, end := span.StartPosition(), span.EndPosition()
	return m.state.bridge.ToLuaValue(map[string]any{
		"start":      span.Start(),
		"stop":       span.End(),
		"text":       span.Text(),
		"len":        span.Len(),
		"start_line": start.Line,
		"start_col":  start.Column,
		"end_line":   end.Line,
		"end_col":    end.Column,
	})
}

func pushError(L *lua.LState, err error) int {
	L.Push(lua.LNil)
	L.Push(lua.LString(err.Error()))
	return 2
}
