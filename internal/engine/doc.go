// Package engine hosts the selection commands for a single document.
//
// An Engine owns a buffer, a cursor offset and the current selection. The
// selection grows through Select and contracts through Shrink, following the
// word/block/shrink rules of the selection package.
//
// # Architecture
//
// The engine is built on two packages:
//
//   - buffer: rune buffer with a line index and position conversion
//   - selection: pure word location, block extension and shrinking
//
// # Thread Safety
//
// All Engine operations are thread-safe. Commands are serialized by a mutex,
// so a document is never replaced while a scan is running.
//
// # Basic Usage
//
//	e := engine.New(`say("hello world") + 1`)
//	e.SetCursor(6)
//
//	span, _ := e.Select() // hello
//	span, _ = e.Select()  // "hello world"
//	span, _ = e.Select()  // ("hello world")
//	span, _ = e.Shrink()  // "hello world"
//
// # Loading Files
//
//	f, _ := os.Open("main.go")
//	defer f.Close()
//	e, _ := engine.NewFromReader(f)
package engine
