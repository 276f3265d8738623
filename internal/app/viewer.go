package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/selectword/internal/config/watcher"
	"github.com/dshills/selectword/internal/engine"
	"github.com/dshills/selectword/internal/engine/buffer"
	"github.com/dshills/selectword/internal/renderer/backend"
	"github.com/dshills/selectword/internal/renderer/viewport"
)

// documentDebounce is how long a document must be quiet before it is
// reloaded. Build tools often rewrite a file in several bursts.
const documentDebounce = 250 * time.Millisecond

// viewer is the interactive full-screen view of a document.
//
// All drawing and engine commands run on the event loop goroutine. Watcher
// callbacks hand work to the loop through post.
type viewer struct {
	app *App
	be  backend.Backend
	doc *Document
	log *Logger

	keymap     map[string]string
	selStyle   backend.Style
	showStatus bool

	view *viewport.Viewport

	message string

	mu      sync.Mutex
	pending []func()
}

func newViewer(app *App, be backend.Backend) *viewer {
	return &viewer{
		app:    app,
		be:     be,
		doc:    app.doc,
		log:    app.logger.WithComponent("viewer"),
		keymap: DefaultKeymap(),
		view:   viewport.NewViewport(be.Size()),
	}
}

// runInteractive opens the viewer and blocks until the user quits or ctx is
// done.
func (app *App) runInteractive(ctx context.Context) error {
	be := app.opts.Backend
	if be == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			return WrapError(err, "open terminal")
		}
		be = term
	}
	if err := be.Init(); err != nil {
		return WrapError(err, "init terminal")
	}
	defer be.Shutdown()

	v := newViewer(app, be)
	v.applyConfig()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := app.startWatchers(ctx, v)
	defer stop()

	go func() {
		<-ctx.Done()
		be.PostEvent(backend.Event{Type: backend.EventInterrupt})
	}()

	return v.loop(ctx)
}

// startWatchers reloads the configuration and the document when their
// files change. The returned function stops the document watcher.
func (app *App) startWatchers(ctx context.Context, v *viewer) func() {
	log := app.logger.WithComponent("watcher")
	onError := func(err error) {
		log.Warn("%v", err)
	}

	app.config.OnReload(func() {
		v.post(v.reloadConfig)
	})
	if err := app.config.Watch(ctx, onError); err != nil {
		log.Debug("config not watched: %v", err)
	}

	if app.doc.IsStdin() {
		return func() {}
	}

	w, err := watcher.New(watcher.WithDebounce(documentDebounce), watcher.WithErrorHandler(onError))
	if err != nil {
		log.Warn("document not watched: %v", err)
		return func() {}
	}
	if err := w.Watch(app.doc.Path); err != nil {
		log.Warn("document not watched: %v", err)
		_ = w.Close()
		return func() {}
	}
	w.OnChange(func(ev watcher.Event) {
		v.post(func() { v.reloadDocument(ev) })
	})
	w.Start(ctx)

	return func() {
		if err := w.Close(); err != nil {
			log.Debug("close document watcher: %v", err)
		}
	}
}

// loop draws the screen and dispatches events until quit.
func (v *viewer) loop(ctx context.Context) error {
	v.draw()
	for {
		ev := v.be.PollEvent()
		switch ev.Type {
		case backend.EventKey:
			if err := v.handleKey(ev); errors.Is(err, ErrQuit) {
				return nil
			}
		case backend.EventInterrupt:
			v.runPending()
			if ctx.Err() != nil {
				return nil
			}
		case backend.EventResize:
			v.log.Debug("resize %dx%d", ev.Width, ev.Height)
		}
		v.draw()
	}
}

// post queues fn to run on the event loop.
func (v *viewer) post(fn func()) {
	v.mu.Lock()
	v.pending = append(v.pending, fn)
	v.mu.Unlock()
	v.be.PostEvent(backend.Event{Type: backend.EventInterrupt})
}

func (v *viewer) runPending() {
	v.mu.Lock()
	pending := v.pending
	v.pending = nil
	v.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// handleKey runs the action bound to the key. Failed commands ring the bell
// and leave their error in the status line.
func (v *viewer) handleKey(ev backend.Event) error {
	name, ok := v.keymap[ev.Name()]
	v.app.metrics.RecordKey(ok)
	if !ok {
		return nil
	}

	err := actions[name](v)
	if errors.Is(err, ErrQuit) {
		return err
	}
	v.message = ""
	if err != nil {
		v.be.Beep()
		v.message = err.Error()
		v.log.Debug("%s: %v", name, err)
	}
	return nil
}

// applyConfig reads the ui, keymap, logging and selection settings.
func (v *viewer) applyConfig() {
	cfg := v.app.config
	ui := cfg.UI()

	fg, bg := ui.SelectionForeground, ui.SelectionBackground
	if !backend.ValidColor(fg) {
		v.log.Warn("unknown selection foreground %q", fg)
		fg = "black"
	}
	if !backend.ValidColor(bg) {
		v.log.Warn("unknown selection background %q", bg)
		bg = "yellow"
	}
	v.selStyle = backend.DefaultStyle().WithForeground(fg).WithBackground(bg)
	v.showStatus = ui.ShowStatusBar
	v.view.SetMargins(viewport.UniformMargins(ui.ScrollMargin))

	keymap, err := buildKeymap(cfg.Keymap())
	var list *ErrorList
	if errors.As(err, &list) {
		for _, e := range list.Errors() {
			v.log.Warn("keymap: %v", e)
		}
	}
	v.keymap = keymap

	v.app.logger.SetLevel(ParseLogLevel(cfg.Logging().Level))
	v.doc.Engine.Configure(v.app.engineOptions()...)
}

func (v *viewer) reloadConfig() {
	v.applyConfig()
	v.message = "configuration reloaded"
	v.log.Info("configuration reloaded from %s", v.app.config.Path())
}

func (v *viewer) reloadDocument(ev watcher.Event) {
	if err := v.doc.Reload(); err != nil {
		v.log.Warn("reload after %s: %v", ev.Op, err)
		v.message = err.Error()
		return
	}
	v.message = "reloaded " + v.doc.Name
	v.log.Info("reloaded %s after %s (version %d)", ev.Path, ev.Op, v.doc.Version())
}

// ============================================================================
// Actions
// ============================================================================

func (v *viewer) selectCmd() error {
	_, err := v.doc.Engine.Select()
	v.app.metrics.RecordCommand(err)
	return err
}

func (v *viewer) shrinkCmd() error {
	_, err := v.doc.Engine.Shrink()
	v.app.metrics.RecordCommand(err)
	return err
}

func (v *viewer) clearCmd() error {
	v.doc.Engine.Clear()
	return nil
}

func (v *viewer) quitCmd() error {
	return ErrQuit
}

func (v *viewer) left() error {
	v.doc.Engine.MoveCursor(-1)
	return nil
}

func (v *viewer) right() error {
	v.doc.Engine.MoveCursor(1)
	return nil
}

func (v *viewer) up() error {
	v.doc.Engine.MoveCursorLine(-1)
	return nil
}

func (v *viewer) down() error {
	v.doc.Engine.MoveCursorLine(1)
	return nil
}

func (v *viewer) home() error {
	v.doc.Engine.MoveCursorToLineStart()
	return nil
}

func (v *viewer) end() error {
	v.doc.Engine.MoveCursorToLineEnd()
	return nil
}

// pageUp and pageDown scroll the view a page and carry the cursor along.
func (v *viewer) pageUp() error {
	page := v.view.PageSize()
	v.view.ScrollBy(-page)
	v.doc.Engine.MoveCursorLine(-page)
	return nil
}

func (v *viewer) pageDown() error {
	page := v.view.PageSize()
	v.view.ScrollBy(page)
	v.doc.Engine.MoveCursorLine(page)
	return nil
}

// ============================================================================
// Drawing
// ============================================================================

func (v *viewer) draw() {
	timer := StartTimer()
	defer func() {
		v.app.metrics.RecordRender(timer.Elapsed())
	}()

	width, height := v.be.Size()
	textHeight := height
	if v.showStatus {
		textHeight--
	}

	eng := v.doc.Engine
	buf := eng.Buffer()
	cursor := eng.CursorPoint()
	sel, hasSel := eng.Selection()

	cursorX := displayColumn([]rune(buf.LineText(cursor.Line)), cursor.Column, buf.TabWidth())
	v.view.Resize(width, textHeight)
	v.view.SetLineCount(buf.LineCount())
	v.view.ScrollToReveal(cursor.Line, cursorX)

	v.be.Clear()
	if textHeight > 0 {
		top := v.view.TopLine()
		for line := top; line <= v.view.BottomLine() && line < buf.LineCount(); line++ {
			v.drawLine(line-top, width, buf, line, sel, hasSel)
		}
	}

	if v.showStatus && height > 0 {
		v.drawStatus(height-1, width, cursor, sel, hasSel, eng.Steps())
	}

	if textHeight > 0 && v.view.IsPositionVisible(cursor.Line, cursorX) {
		row, col := v.view.BufferToScreen(cursor.Line, cursorX)
		v.be.ShowCursor(col, row)
	} else {
		v.be.HideCursor()
	}
	v.be.Show()
}

// drawLine draws one document line. A selected newline is shown as a
// highlighted cell past the end of the text.
func (v *viewer) drawLine(y, width int, buf *buffer.Buffer, line int, sel engine.Span, hasSel bool) {
	tabWidth := buf.TabWidth()
	offset := buf.LineStartOffset(line)
	x := 0

	for _, r := range buf.LineText(line) {
		style := backend.DefaultStyle()
		if hasSel && sel.Contains(offset) {
			style = v.selStyle
		}

		cells := 1
		if r == '\t' {
			cells = tabWidth - x%tabWidth
			r = ' '
		}
		for i := 0; i < cells; i++ {
			v.put(x+i, y, width, r, style)
		}
		x += cells
		offset++
	}

	if hasSel && offset < buf.Len() && sel.Contains(offset) {
		v.put(x, y, width, ' ', v.selStyle)
	}
}

func (v *viewer) put(x, y, width int, r rune, style backend.Style) {
	if sx := x - v.view.LeftColumn(); sx >= 0 && sx < width {
		v.be.SetContent(sx, y, r, style)
	}
}

// drawStatus draws the reverse-video status line.
func (v *viewer) drawStatus(y, width int, cursor engine.Point, sel engine.Span, hasSel bool, steps int) {
	text := fmt.Sprintf(" %s  %d:%d", v.doc.Name, cursor.Line+1, cursor.Column+1)
	if hasSel {
		text += fmt.Sprintf("  [%d,%d) len %d  steps %d", sel.Start(), sel.End(), sel.Len(), steps)
	}
	if v.message != "" {
		text += "  " + v.message
	}

	style := backend.DefaultStyle()
	style.Reverse = true

	x := 0
	for _, r := range text {
		if x >= width {
			break
		}
		v.be.SetContent(x, y, r, style)
		x++
	}
	for ; x < width; x++ {
		v.be.SetContent(x, y, ' ', style)
	}
}

// displayColumn returns the screen column of the rune at col, expanding
// tabs to the next multiple of tabWidth.
func displayColumn(line []rune, col, tabWidth int) int {
	if col > len(line) {
		col = len(line)
	}
	x := 0
	for _, r := range line[:col] {
		if r == '\t' {
			x += tabWidth - x%tabWidth
		} else {
			x++
		}
	}
	return x
}
