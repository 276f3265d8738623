package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/selectword/internal/engine"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "op only",
			err:      &OperationError{Op: StepSelect},
			expected: "select",
		},
		{
			name:     "step with context",
			err:      NewOperationError(StepShrink, "<stdin>", engine.ErrNoSelection).WithContext("step 2"),
			expected: "shrink <stdin> (step 2): no selection",
		},
		{
			name:     "script failure",
			err:      NewOperationError("script", "expand.lua", errors.New("boom")),
			expected: "script expand.lua: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("Error() = '%s', expected '%s'", result, tt.expected)
			}
		})
	}
}

func TestOperationError_Is(t *testing.T) {
	err := NewOperationError("cursor", "doc.txt", engine.ErrOffsetOutOfRange)

	if !errors.Is(err, engine.ErrOffsetOutOfRange) {
		t.Error("expected errors.Is to match the wrapped error")
	}
	if !errors.Is(err, err) {
		t.Error("expected errors.Is to match the same instance")
	}
	if errors.Is(err, NewOperationError("cursor", "doc.txt", engine.ErrOffsetOutOfRange)) {
		t.Error("distinct OperationError values should not match")
	}

	var nilErr *OperationError
	if nilErr.Is(engine.ErrOffsetOutOfRange) || nilErr.Unwrap() != nil || nilErr.WithContext("x") != nil {
		t.Error("nil OperationError should be inert")
	}
}

func TestRunSteps_CancelledIsOperationError(t *testing.T) {
	app, _, _ := newTestApp(t, "call(alpha beta); x", func(o *Options) {
		o.Offset = cursorAt(6)
		o.Expand = 3
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	steps, err := app.runSteps(ctx)
	if len(steps) != 0 {
		t.Errorf("expected no steps, got %v", steps)
	}

	var opErr *OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected OperationError, got %v", err)
	}
	if opErr.Op != StepSelect || opErr.Target != "<stdin>" || opErr.Context != "step 1" {
		t.Errorf("unexpected error fields %+v", opErr)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in the chain, got %v", err)
	}
}

func TestRunSteps_CancelledDuringShrink(t *testing.T) {
	app, _, _ := newTestApp(t, "call(alpha beta); x", func(o *Options) {
		o.Offset = cursorAt(6)
		o.Expand = 0
		o.Shrink = 2
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := app.runSteps(ctx)

	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != StepShrink || opErr.Context != "step 1" {
		t.Fatalf("expected shrink OperationError at step 1, got %v", err)
	}
}

func TestPlaceCursor_OperationError(t *testing.T) {
	opts := DefaultOptions()
	opts.Input = strings.NewReader("one\ntwo")
	opts.ErrOutput = &strings.Builder{}
	opts.ConfigPath = t.TempDir() + "/config.toml"
	opts.Line = 5

	_, err := New(opts)

	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Op != "cursor" {
		t.Fatalf("expected cursor OperationError, got %v", err)
	}
	if opErr.Context != "line 5 col 1" {
		t.Errorf("Context = %q", opErr.Context)
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	opts := Options{Offset: cursorAt(-2), Line: 1, Expand: -1, Format: "xml"}

	err := opts.validate()

	var list *ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("expected ErrorList, got %v", err)
	}
	if got := len(list.Errors()); got != 4 {
		t.Errorf("expected 4 problems, got %d: %v", got, list.Errors())
	}
	if !errors.Is(err, ErrInvalidOptions) {
		t.Error("expected ErrInvalidOptions in the chain")
	}
	if !strings.HasPrefix(err.Error(), "4 errors: first: offset and line are exclusive") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestBuildKeymap_UnknownActions(t *testing.T) {
	keymap, err := buildKeymap(map[string]string{
		"x":      "explode",
		"Ctrl+G": "select",
		"y":      "yank",
	})

	if keymap["Ctrl-G"] != "select" {
		t.Errorf("valid override dropped: %v", keymap["Ctrl-G"])
	}
	if _, ok := keymap["x"]; ok {
		t.Error("unknown action should not be bound")
	}

	var list *ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("expected ErrorList, got %v", err)
	}
	errs := list.Errors()
	if len(errs) != 2 || !strings.HasPrefix(errs[0].Error(), "key x:") {
		t.Errorf("expected errors in key order, got %v", errs)
	}
	if !errors.Is(err, ErrUnknownAction) {
		t.Error("expected ErrUnknownAction in the chain")
	}

	errs[0] = nil
	if list.Errors()[0] == nil {
		t.Error("Errors() should return a copy")
	}
}

func TestErrorList_AsError_Empty(t *testing.T) {
	if err := NewErrorList().AsError(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if _, err := buildKeymap(nil); err != nil {
		t.Errorf("default keymap should build cleanly, got %v", err)
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "write steps") != nil {
		t.Error("expected nil for nil error")
	}

	err := WrapError(context.DeadlineExceeded, "create lua state for %s", "doc.txt")
	if err.Error() != "create lua state for doc.txt: context deadline exceeded" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected the cause to unwrap")
	}
}
