package backend

import (
	"strings"
	"unicode/utf8"
)

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH
	KeyCtrlI
	KeyCtrlJ
	KeyCtrlK
	KeyCtrlL
	KeyCtrlM
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ
)

var keyNames = map[Key]string{
	KeyEscape:    "Esc",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PgUp",
	KeyPageDown:  "PgDn",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
}

// lowercase aliases accepted by NormalizeKeyName
var keyAliases = map[string]string{
	"escape":   "Esc",
	"return":   "Enter",
	"pageup":   "PgUp",
	"pagedown": "PgDn",
	"del":      "Delete",
	"ins":      "Insert",
}

var canonicalKeyNames = func() map[string]string {
	m := make(map[string]string, len(keyNames)+len(keyAliases))
	for _, name := range keyNames {
		m[strings.ToLower(name)] = name
	}
	for alias, name := range keyAliases {
		m[alias] = name
	}
	return m
}()

// Name returns the keymap name of a key event: a single character such as
// "w", "Ctrl-W", "Alt-x", or a special key name such as "Enter" or "Up".
// Non-key events have an empty name.
func (e Event) Name() string {
	if e.Type != EventKey {
		return ""
	}
	switch {
	case e.Key >= KeyCtrlA && e.Key <= KeyCtrlZ:
		return "Ctrl-" + string(rune('A'+int(e.Key-KeyCtrlA)))
	case e.Key == KeyRune:
		if e.Mod.Has(ModCtrl) && isASCIILetter(e.Rune) {
			return "Ctrl-" + strings.ToUpper(string(e.Rune))
		}
		if e.Mod.Has(ModAlt) {
			return "Alt-" + string(e.Rune)
		}
		return string(e.Rune)
	}
	return keyNames[e.Key]
}

// NormalizeKeyName converts a user supplied key name into the form returned
// by Event.Name. Single characters are case sensitive; everything else is not.
func NormalizeKeyName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= 1 {
		return name
	}
	lower := strings.ToLower(name)
	for _, prefix := range []string{"ctrl-", "ctrl+", "c-"} {
		if rest, ok := strings.CutPrefix(lower, prefix); ok && len(rest) == 1 && isASCIILetter(rune(rest[0])) {
			return "Ctrl-" + strings.ToUpper(rest)
		}
	}
	for _, prefix := range []string{"alt-", "alt+", "m-"} {
		if len(lower) > len(prefix) && strings.HasPrefix(lower, prefix) {
			rest := name[len(prefix):]
			if utf8.RuneCountInString(rest) == 1 {
				return "Alt-" + rest
			}
		}
	}
	if canonical, ok := canonicalKeyNames[lower]; ok {
		return canonical
	}
	return name
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
