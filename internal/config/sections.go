package config

import (
	"fmt"
	"sort"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration. Use Config.Set()
// to update configuration values.

// LoggingConfig provides type-safe access to logging settings.
type LoggingConfig struct {
	// Level is the logging verbosity level ("debug", "info", "warn", "error").
	Level string

	// File is the log file path (empty for stderr).
	File string
}

// SelectionConfig provides type-safe access to selection command settings.
type SelectionConfig struct {
	// ShrinkGuard rejects shrinking selections shorter than two characters.
	ShrinkGuard bool

	// MaxExpansions caps consecutive block extensions (0 for unlimited).
	MaxExpansions int
}

// UIConfig provides type-safe access to interactive viewer settings.
type UIConfig struct {
	// SelectionForeground is the tcell color name for selected text.
	SelectionForeground string

	// SelectionBackground is the tcell color name behind selected text.
	SelectionBackground string

	// ShowStatusBar shows the status line at the bottom.
	ShowStatusBar bool

	// TabWidth is the display width of a tab.
	TabWidth int

	// ScrollMargin is the number of lines and columns kept visible around
	// the cursor.
	ScrollMargin int
}

// PluginsConfig provides type-safe access to Lua scripting settings.
type PluginsConfig struct {
	// Scripts are run against the document after it is loaded.
	Scripts []string

	// InstructionLimit bounds the work a script may do (0 for unlimited).
	InstructionLimit int
}

// Actions that keymap entries may bind.
var Actions = []string{
	"select", "shrink", "clear", "quit",
	"left", "right", "up", "down", "home", "end",
	"pageup", "pagedown",
}

// Logging returns type-safe access to logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "info"),
		File:  c.getStringOr("logging.file", ""),
	}
}

// Selection returns type-safe access to selection settings.
func (c *Config) Selection() SelectionConfig {
	return SelectionConfig{
		ShrinkGuard:   c.getBoolOr("selection.shrinkGuard", true),
		MaxExpansions: c.getIntOr("selection.maxExpansions", 0),
	}
}

// UI returns type-safe access to viewer settings.
func (c *Config) UI() UIConfig {
	return UIConfig{
		SelectionForeground: c.getStringOr("ui.selectionForeground", "black"),
		SelectionBackground: c.getStringOr("ui.selectionBackground", "yellow"),
		ShowStatusBar:       c.getBoolOr("ui.showStatusBar", true),
		TabWidth:            c.getIntOr("ui.tabWidth", 4),
		ScrollMargin:        c.getIntOr("ui.scrollMargin", 0),
	}
}

// Plugins returns type-safe access to scripting settings.
func (c *Config) Plugins() PluginsConfig {
	return PluginsConfig{
		Scripts:          c.getStringSliceOr("plugins.scripts", nil),
		InstructionLimit: c.getIntOr("plugins.instructionLimit", 1000000),
	}
}

// Keymap returns the configured key bindings, key name to action. Entries
// whose action is not a string are skipped and recorded.
func (c *Config) Keymap() map[string]string {
	v, ok := c.Get("keymap")
	if !ok {
		return map[string]string{}
	}
	m, ok := v.(map[string]any)
	if !ok {
		c.recordConfigError("keymap", &TypeError{Path: "keymap", Expected: "map", Actual: typeName(v)})
		return map[string]string{}
	}

	keymap := make(map[string]string, len(m))
	for key, val := range m {
		action, ok := val.(string)
		if !ok {
			path := "keymap." + key
			c.recordConfigError(path, &TypeError{Path: path, Expected: "string", Actual: typeName(val)})
			continue
		}
		keymap[key] = action
	}
	return keymap
}

// Validate checks values that have the right type but are not allowed.
func (c *Config) Validate() []error {
	var errs []error

	switch level := c.Logging().Level; level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{Path: "logging.level", Message: "unknown level", Value: level})
	}

	if n := c.Selection().MaxExpansions; n < 0 {
		errs = append(errs, &ValidationError{Path: "selection.maxExpansions", Message: "must not be negative", Value: n})
	}
	if n := c.UI().TabWidth; n < 1 {
		errs = append(errs, &ValidationError{Path: "ui.tabWidth", Message: "must be positive", Value: n})
	}
	if n := c.UI().ScrollMargin; n < 0 {
		errs = append(errs, &ValidationError{Path: "ui.scrollMargin", Message: "must not be negative", Value: n})
	}
	if n := c.Plugins().InstructionLimit; n < 0 {
		errs = append(errs, &ValidationError{Path: "plugins.instructionLimit", Message: "must not be negative", Value: n})
	}

	keymap := c.Keymap()
	keys := make([]string, 0, len(keymap))
	for key := range keymap {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !isAction(keymap[key]) {
			errs = append(errs, &ValidationError{
				Path:    fmt.Sprintf("keymap.%s", key),
				Message: "unknown action",
				Value:   keymap[key],
			})
		}
	}

	return errs
}

func isAction(name string) bool {
	for _, a := range Actions {
		if a == name {
			return true
		}
	}
	return false
}

// Helper methods for getting values with defaults.
// These methods only return the default for ErrSettingNotFound.
// Type errors return the default too, but are recorded for Errors().

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if !isNotFound(err) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		if !isNotFound(err) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if !isNotFound(err) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getStringSliceOr(path string, defaultValue []string) []string {
	v, err := c.GetStringSlice(path)
	if err != nil {
		if !isNotFound(err) {
			c.recordConfigError(path, err)
		}
		return append([]string(nil), defaultValue...)
	}
	return v
}

// recordConfigError stores configuration errors for later retrieval.
// Only the first error for each path is recorded.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// Errors returns the type errors encountered by section accessors since the
// last load.
func (c *Config) Errors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}

// ClearErrors clears any stored configuration errors.
func (c *Config) ClearErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configErrors = nil
}
