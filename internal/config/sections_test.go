package config

import (
	"errors"
	"testing"
)

func TestSections_TypeErrorsRecorded(t *testing.T) {
	c := newTestConfig("")
	_ = c.Set("selection.shrinkGuard", "yes please")
	_ = c.Set("ui.tabWidth", "wide")

	sel := c.Selection()
	if !sel.ShrinkGuard {
		t.Error("wrong type should fall back to the default")
	}
	if n := c.UI().TabWidth; n != 4 {
		t.Errorf("tabWidth = %d, want default 4", n)
	}

	errs := c.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected 2 recorded errors, got %v", errs)
	}
	if !errors.Is(errs["ui.tabWidth"], ErrTypeMismatch) {
		t.Errorf("ui.tabWidth error = %v, want ErrTypeMismatch", errs["ui.tabWidth"])
	}

	c.ClearErrors()
	if c.Errors() != nil {
		t.Error("ClearErrors() should drop recorded errors")
	}
}

func TestSections_Keymap(t *testing.T) {
	c := newTestConfig("")
	_ = c.Set("keymap", map[string]any{
		"x":      "select",
		"Ctrl-X": "shrink",
		"y":      3,
	})

	keymap := c.Keymap()
	if len(keymap) != 2 {
		t.Fatalf("keymap = %v, want 2 entries", keymap)
	}
	if keymap["Ctrl-X"] != "shrink" {
		t.Errorf("Ctrl-X = %q, want shrink", keymap["Ctrl-X"])
	}
	if _, ok := c.Errors()["keymap.y"]; !ok {
		t.Error("non-string action should be recorded")
	}
}

func TestSections_Plugins(t *testing.T) {
	c := newTestConfig("")

	p := c.Plugins()
	if len(p.Scripts) != 0 {
		t.Errorf("scripts = %v, want none", p.Scripts)
	}
	if p.InstructionLimit != 1000000 {
		t.Errorf("instructionLimit = %d, want 1000000", p.InstructionLimit)
	}

	_ = c.Set("plugins.scripts", []any{"init.lua"})
	if p := c.Plugins(); len(p.Scripts) != 1 || p.Scripts[0] != "init.lua" {
		t.Errorf("scripts = %v, want [init.lua]", p.Scripts)
	}
}

func TestValidate(t *testing.T) {
	c := newTestConfig("")
	if errs := c.Validate(); len(errs) != 0 {
		t.Fatalf("defaults should validate, got %v", errs)
	}

	_ = c.Set("logging.level", "loud")
	_ = c.Set("selection.maxExpansions", -1)
	_ = c.Set("ui.tabWidth", 0)
	_ = c.Set("ui.scrollMargin", -2)
	_ = c.Set("keymap.z", "explode")
	_ = c.Set("keymap.PgDn", "pagedown")

	errs := c.Validate()
	if len(errs) != 5 {
		t.Fatalf("expected 5 validation errors, got %v", errs)
	}
	for _, err := range errs {
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("%v should match ErrValidationFailed", err)
		}
	}
}
