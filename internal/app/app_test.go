package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/selectword/internal/config"
	"github.com/dshills/selectword/internal/engine"
)

// newTestApp builds an App over text with an isolated config path. The
// returned buffers collect Output and ErrOutput.
func newTestApp(t *testing.T, text string, mutate func(*Options)) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var out, errOut bytes.Buffer
	opts := DefaultOptions()
	opts.ConfigPath = filepath.Join(t.TempDir(), "config.toml")
	opts.Input = strings.NewReader(text)
	opts.Output = &out
	opts.ErrOutput = &errOut
	if mutate != nil {
		mutate(&opts)
	}

	app, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(app.Shutdown)
	return app, &out, &errOut
}

func cursorAt(offset int) *int {
	return &offset
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ============================================================================
// Options
// ============================================================================

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"offset and line", func(o *Options) { o.Offset = cursorAt(3); o.Line = 1 }},
		{"zero offset and line", func(o *Options) { o.Offset = cursorAt(0); o.Line = 1 }},
		{"negative offset", func(o *Options) { o.Offset = cursorAt(-1) }},
		{"col without line", func(o *Options) { o.Col = 2 }},
		{"negative line", func(o *Options) { o.Line = -1 }},
		{"negative expand", func(o *Options) { o.Expand = -1 }},
		{"unknown format", func(o *Options) { o.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Input = strings.NewReader("text")
			tt.mutate(&opts)

			_, err := New(opts)
			if !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("expected ErrInvalidOptions, got %v", err)
			}
		})
	}
}

func TestNew_ZeroValueOptions(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		cursor int
	}{
		{"line only", Options{Line: 2}, 4},
		{"line and col", Options{Line: 2, Col: 3}, 6},
		{"offset zero", Options{Offset: cursorAt(0)}, 0},
		{"nothing set", Options{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.ConfigPath = filepath.Join(t.TempDir(), "config.toml")
			opts.Input = strings.NewReader("one\ntwo three")
			opts.Output = &bytes.Buffer{}
			opts.ErrOutput = &bytes.Buffer{}

			app, err := New(opts)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			defer app.Shutdown()

			if got := app.Document().Engine.Cursor(); got != tt.cursor {
				t.Errorf("Cursor() = %d, want %d", got, tt.cursor)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"", FormatText},
		{"text", FormatText},
		{"JSON", FormatJSON},
		{" json ", FormatJSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}

	if _, err := ParseFormat("yaml"); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("expected ErrInvalidOptions, got %v", err)
	}
}

// ============================================================================
// Steps
// ============================================================================

func TestRun_TextSteps(t *testing.T) {
	app, out, _ := newTestApp(t, "call(alpha beta); x", func(o *Options) {
		o.Offset = cursorAt(6)
		o.Expand = 5
		o.Shrink = 1
	})

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := `1 select 5 10 1:6-1:11 "alpha"
2 select 4 16 1:5-1:17 "(alpha beta)"
3 select 0 19 1:1-1:20 "call(alpha beta); x"
4 shrink 1 18 1:2-1:19 "all(alpha beta); "
`
	if out.String() != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", out.String(), want)
	}

	snapshot := app.Metrics().Snapshot()
	if snapshot.CommandCount != 5 || snapshot.FailedCommands != 1 {
		t.Errorf("commands = %d failed = %d, want 5 and 1", snapshot.CommandCount, snapshot.FailedCommands)
	}
}

func TestRun_DefaultSelectsFirstWord(t *testing.T) {
	app, out, _ := newTestApp(t, "call(alpha beta); x", nil)

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if want := "1 select 0 4 1:1-1:5 \"call\"\n"; out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestRun_LineCol(t *testing.T) {
	app, out, _ := newTestApp(t, "one\ntwo three;\n", func(o *Options) {
		o.Line = 2
		o.Col = 5
	})

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if want := "1 select 8 13 2:5-2:10 \"three\"\n"; out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestRun_ShrinkStopsWhenTooShort(t *testing.T) {
	app, out, errOut := newTestApp(t, "ab cd", func(o *Options) {
		o.Offset = cursorAt(0)
		o.Shrink = 3
	})

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := "1 select 0 2 1:1-1:3 \"ab\"\n2 shrink 1 1 1:2-1:2 \"\"\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
	if !strings.Contains(errOut.String(), "shrink stopped") {
		t.Errorf("expected a shrink stopped log line, got %q", errOut.String())
	}
}

func TestRun_JSON(t *testing.T) {
	app, out, _ := newTestApp(t, "call(alpha beta); x", func(o *Options) {
		o.Offset = cursorAt(6)
		o.Expand = 2
		o.Format = FormatJSON
	})

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var steps []Step
	if err := json.Unmarshal(out.Bytes(), &steps); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[1].Kind != StepSelect || steps[1].Text != "(alpha beta)" || steps[1].StartColumn != 5 {
		t.Errorf("unexpected second step %+v", steps[1])
	}
	if !strings.Contains(out.String(), `"startLine": 1`) {
		t.Errorf("expected camelCase keys, got %s", out.String())
	}
}

func TestWriteSteps_EmptyJSON(t *testing.T) {
	var out bytes.Buffer
	if err := writeSteps(&out, FormatJSON, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "[]" {
		t.Errorf("expected [], got %q", out.String())
	}
}

func TestRun_CancelledContext(t *testing.T) {
	app, out, _ := newTestApp(t, "alpha beta", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := app.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no steps, got %q", out.String())
	}
}

func TestRun_AlreadyRunning(t *testing.T) {
	app, _, _ := newTestApp(t, "alpha", nil)

	app.running.Store(true)
	if err := app.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
}

// ============================================================================
// Bootstrap
// ============================================================================

func TestNew_OffsetOutOfRange(t *testing.T) {
	opts := DefaultOptions()
	opts.ConfigPath = filepath.Join(t.TempDir(), "config.toml")
	opts.Input = strings.NewReader("abc")
	opts.ErrOutput = &bytes.Buffer{}
	opts.Offset = cursorAt(10)

	_, err := New(opts)
	if !errors.Is(err, engine.ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestNew_MissingFile(t *testing.T) {
	opts := DefaultOptions()
	opts.ConfigPath = filepath.Join(t.TempDir(), "config.toml")
	opts.File = filepath.Join(t.TempDir(), "missing.txt")
	opts.ErrOutput = &bytes.Buffer{}

	if _, err := New(opts); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestNew_ConfigFile(t *testing.T) {
	cfgPath := writeFile(t, "config.toml", "[selection]\nmaxExpansions = 1\n\n[ui]\ntabWidth = 2\n")

	app, out, _ := newTestApp(t, "call(alpha beta); x", func(o *Options) {
		o.ConfigPath = cfgPath
		o.Offset = cursorAt(6)
		o.Expand = 5
	})

	if got := app.Document().Engine.Buffer().TabWidth(); got != 2 {
		t.Errorf("TabWidth = %d, want 2", got)
	}
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if lines := strings.Count(out.String(), "\n"); lines != 2 {
		t.Errorf("expected 2 steps with maxExpansions = 1, got %q", out.String())
	}
}

func TestNew_BadExplicitConfig(t *testing.T) {
	cfgPath := writeFile(t, "config.toml", "[selection\nbroken")

	opts := DefaultOptions()
	opts.ConfigPath = cfgPath
	opts.Input = strings.NewReader("abc")
	opts.ErrOutput = &bytes.Buffer{}

	_, err := New(opts)
	var parseErr *config.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected config.ParseError, got %v", err)
	}
}

func TestNew_LogLevelOverride(t *testing.T) {
	_, _, errOut := newTestApp(t, "alpha", func(o *Options) {
		o.LogLevel = "debug"
	})

	if !strings.Contains(errOut.String(), "[DEBUG] selectword: loaded <stdin>") {
		t.Errorf("expected debug output, got %q", errOut.String())
	}
}

func TestNew_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "selectword.log")

	app, _, errOut := newTestApp(t, "alpha", func(o *Options) {
		o.LogLevel = "debug"
		o.LogFile = logPath
	})
	if err := app.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	app.Shutdown()
	app.Shutdown()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "component=engine") {
		t.Errorf("expected engine traces in log file, got %q", data)
	}
	if !strings.Contains(string(data), "session:") {
		t.Errorf("expected session metrics in log file, got %q", data)
	}
	if errOut.Len() != 0 {
		t.Errorf("nothing should reach stderr, got %q", errOut.String())
	}
}

func TestNew_FromFile(t *testing.T) {
	path := writeFile(t, "input.txt", "first second")

	app, out, _ := newTestApp(t, "", func(o *Options) {
		o.File = path
		o.Offset = cursorAt(7)
	})
	if app.Document().Name != "input.txt" {
		t.Errorf("Name = %q", app.Document().Name)
	}
	if err := app.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"secon"`) {
		t.Errorf("expected the final word without its last character, got %q", out.String())
	}
}

// ============================================================================
// Scripts
// ============================================================================

func TestRun_Scripts(t *testing.T) {
	first := writeFile(t, "first.lua", `print("config", selectword.config.selection.shrinkGuard)`)
	second := writeFile(t, "second.lua", `
selectword.set_cursor(5)
print(selectword.cursor())
`)
	cfgPath := writeFile(t, "config.toml", "[plugins]\nscripts = [\""+filepath.ToSlash(first)+"\"]\n")

	app, out, _ := newTestApp(t, "call(alpha beta); x", func(o *Options) {
		o.ConfigPath = cfgPath
		o.Scripts = []string{second}
	})

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := "config\ttrue\n5\n1 select 5 10 1:6-1:11 \"alpha\"\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestRun_ScriptError(t *testing.T) {
	script := writeFile(t, "broken.lua", `error("boom")`)

	app, out, _ := newTestApp(t, "alpha", func(o *Options) {
		o.Scripts = []string{script}
	})

	err := app.Run(context.Background())
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "script" {
		t.Fatalf("expected script OperationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error should carry the Lua message, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("steps should not run after a failed script, got %q", out.String())
	}
}
