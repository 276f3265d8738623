// Package lua runs user scripts against a selection engine.
//
// Scripts run in a sandboxed gopher-lua state:
//   - Only the base, table, string and math libraries are opened
//   - dofile, loadfile, load and loadstring are removed
//   - require only resolves the safe built-in modules and "selectword"
//   - print writes to the state's output writer
//   - Execution is bounded by a timeout and an instruction limit
//
// # State
//
//	state, err := lua.NewState(
//	    lua.WithInstructionLimit(100000),
//	    lua.WithOutput(os.Stdout),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer state.Close()
//
//	state.OpenSelectword(eng)
//	if err := state.DoFile(ctx, "expand.lua"); err != nil {
//	    log.Fatal(err)
//	}
//
// # The selectword module
//
// Offsets are 0-indexed character offsets, matching the Go API. Spans are
// tables with start, stop, text, start_line, start_col, end_line and
// end_col fields.
//
// Pure functions over a string:
//
//	selectword.locate_word(text, cursor)
//	selectword.extend_block(text, start, stop)
//	selectword.shrink_span(text, start, stop)
//
// extend_block and shrink_span also accept a span table in place of start
// and stop, so results chain:
//
//	local w = selectword.locate_word(text, 5)
//	local b = selectword.extend_block(text, w)
//
// Engine commands over the loaded document:
//
//	selectword.text()
//	selectword.cursor()
//	selectword.set_cursor(offset)
//	selectword.move_cursor(delta)
//	selectword.select()
//	selectword.shrink()
//	selectword.clear()
//	selectword.selection()
//	selectword.steps()
//
// Commands that can fail return nil and an error message.
//
//	local span, err = selectword.select()
//	if not span then print(err) end
//
// The merged configuration is available read-only as selectword.config
// when the host provides it.
package lua
