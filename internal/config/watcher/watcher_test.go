package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, opts ...Option) *Watcher {
	t.Helper()

	w, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestNew(t *testing.T) {
	w := newTestWatcher(t)
	if w.debounce != 100*time.Millisecond {
		t.Errorf("default debounce = %v, want 100ms", w.debounce)
	}

	w = newTestWatcher(t, WithDebounce(20*time.Millisecond))
	if w.debounce != 20*time.Millisecond {
		t.Errorf("debounce = %v, want 20ms", w.debounce)
	}
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestWatcher_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	w := newTestWatcher(t)

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Watch(path); err != nil {
		t.Errorf("Watch() twice error = %v", err)
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if len(w.files) != 1 || !w.files[path] {
		t.Errorf("watched files = %v, want only %s", w.files, path)
	}
	if n := w.dirs[dir]; n != 1 {
		t.Errorf("directory %s watched %d times, want 1", dir, n)
	}
}

func TestWatcher_WatchMissingDir(t *testing.T) {
	w := newTestWatcher(t)

	err := w.Watch(filepath.Join(t.TempDir(), "missing", "config.toml"))
	if err == nil {
		t.Error("Watch() should fail when the directory does not exist")
	}
}

func TestWatcher_Closed(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if err := w.Watch(filepath.Join(t.TempDir(), "x")); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch() after Close error = %v, want ErrWatcherClosed", err)
	}
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	other := filepath.Join(dir, "other.toml")
	if err := os.WriteFile(path, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := newTestWatcher(t, WithDebounce(20*time.Millisecond))
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	events := make(chan Event, 10)
	w.OnChange(func(e Event) { events <- e })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()
	if !running {
		t.Error("watcher should be running")
	}

	if err := os.WriteFile(other, []byte("ignored\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("a = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case e := <-events:
		if e.Path != path {
			t.Errorf("event path = %s, want %s", e.Path, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatcher_HandlerPanicRecovered(t *testing.T) {
	var got error
	w := newTestWatcher(t, WithErrorHandler(func(err error) { got = err }))

	w.OnChange(func(Event) { panic("boom") })
	w.emitEvent(Event{Path: "x", Op: OpWrite})

	if got == nil {
		t.Error("expected panic to be reported to the error handler")
	}
}

func TestWatcher_DebounceCoalesces(t *testing.T) {
	w := newTestWatcher(t, WithDebounce(time.Hour))

	var count int
	w.OnChange(func(Event) { count++ })

	now := time.Now()
	w.queueEvent(Event{Path: "a", Op: OpRemove, Time: now})
	w.queueEvent(Event{Path: "a", Op: OpCreate, Time: now})
	w.queueEvent(Event{Path: "a", Op: OpWrite, Time: now})

	w.debounce = 0
	w.processPendingEvents()

	if count != 1 {
		t.Errorf("handler called %d times, want 1", count)
	}
}
