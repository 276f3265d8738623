package app

import (
	"fmt"
	"sort"

	"github.com/dshills/selectword/internal/renderer/backend"
)

// action is a viewer command bound to a key.
type action func(v *viewer) error

// actions maps keymap action names to viewer commands.
var actions = map[string]action{
	"select":   (*viewer).selectCmd,
	"shrink":   (*viewer).shrinkCmd,
	"clear":    (*viewer).clearCmd,
	"quit":     (*viewer).quitCmd,
	"left":     (*viewer).left,
	"right":    (*viewer).right,
	"up":       (*viewer).up,
	"down":     (*viewer).down,
	"home":     (*viewer).home,
	"end":      (*viewer).end,
	"pageup":   (*viewer).pageUp,
	"pagedown": (*viewer).pageDown,
}

// DefaultKeymap returns the built-in key bindings, key name to action.
func DefaultKeymap() map[string]string {
	return map[string]string{
		"w":      "select",
		"Ctrl-W": "select",
		"Enter":  "select",
		"s":      "shrink",
		"Ctrl-S": "shrink",
		"Esc":    "clear",
		"c":      "clear",
		"q":      "quit",
		"Ctrl-C": "quit",
		"Left":   "left",
		"h":      "left",
		"Right":  "right",
		"l":      "right",
		"Up":     "up",
		"k":      "up",
		"Down":   "down",
		"j":      "down",
		"Home":   "home",
		"End":    "end",
		"PgUp":   "pageup",
		"PgDn":   "pagedown",
	}
}

// buildKeymap lays overrides over the defaults. Key names are normalized to
// the form backend.Event.Name produces. Entries naming an unknown action are
// skipped and reported.
func buildKeymap(overrides map[string]string) (map[string]string, error) {
	keymap := DefaultKeymap()
	errs := NewErrorList()

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		name := overrides[key]
		if _, ok := actions[name]; !ok {
			errs.Add(fmt.Errorf("key %s: %q: %w", key, name, ErrUnknownAction))
			continue
		}
		keymap[backend.NormalizeKeyName(key)] = name
	}

	return keymap, errs.AsError()
}
