package loader

import (
	"testing"
)

func getByPath(data map[string]any, path string) (any, bool) {
	current := any(data)
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			continue
		}
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[path[start:i]]
		if !ok {
			return nil, false
		}
		start = i + 1
	}
	return current, true
}

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("SELECTWORD_LOG_LEVEL", "debug")
	t.Setenv("SELECTWORD_TAB_WIDTH", "2")
	t.Setenv("SELECTWORD_SELECTION_SHRINK_GUARD", "false")
	t.Setenv("SELECTWORD_UI_SELECTION_BACKGROUND", "navy")

	config, err := NewEnvLoader(DefaultEnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"logging.level", "debug"},
		{"ui.tabWidth", int64(2)},
		{"selection.shrinkGuard", false},
		{"ui.selectionBackground", "navy"},
	}
	for _, tt := range tests {
		got, ok := getByPath(config, tt.path)
		if !ok || got != tt.want {
			t.Errorf("%s = %v (%T), want %v", tt.path, got, got, tt.want)
		}
	}
}

func TestEnvLoader_IgnoresOtherPrefixes(t *testing.T) {
	t.Setenv("OTHER_SELECTION_MAX_EXPANSIONS", "3")

	config, err := NewEnvLoader(DefaultEnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := getByPath(config, "selection.maxExpansions"); ok {
		t.Error("variables without the prefix should be ignored")
	}
}

func TestEnvLoader_MappedNames(t *testing.T) {
	t.Setenv("SELECTWORD_LOG_FILE", "/tmp/sw.log")
	t.Setenv("SELECTWORD_STATUS_BAR", "false")
	t.Setenv("SELECTWORD_SCRIPTS", "a.lua")

	config, err := NewEnvLoader(DefaultEnvPrefix).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got, _ := getByPath(config, "logging.file"); got != "/tmp/sw.log" {
		t.Errorf("logging.file = %v", got)
	}
	if got, _ := getByPath(config, "ui.showStatusBar"); got != false {
		t.Errorf("ui.showStatusBar = %v, want false", got)
	}
	if got, _ := getByPath(config, "plugins.scripts"); got != "a.lua" {
		t.Errorf("plugins.scripts = %v, want a.lua", got)
	}
	if _, ok := getByPath(config, "status.bar"); ok {
		t.Error("mapped variables should not also be converted by name")
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix)

	tests := []struct {
		env  string
		want string
	}{
		{"SELECTWORD_SELECTION_SHRINK_GUARD", "selection.shrinkGuard"},
		{"SELECTWORD_UI_SELECTION_FOREGROUND", "ui.selectionForeground"},
		{"SELECTWORD_PLUGINS_INSTRUCTION_LIMIT", "plugins.instructionLimit"},
		{"SELECTWORD_KEYMAP", "keymap"},
		{"SELECTWORD_", ""},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"Yes", true},
		{"off", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"navy", "navy"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}

	list, ok := parseValue(`["a.lua", "b.lua"]`).([]any)
	if !ok || len(list) != 2 || list[0] != "a.lua" {
		t.Errorf("parseValue(JSON array) = %v", list)
	}
}
