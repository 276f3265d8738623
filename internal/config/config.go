package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/selectword/internal/config/loader"
	"github.com/dshills/selectword/internal/config/watcher"
)

// Config provides unified access to the selectword configuration.
// It manages loading, merging, live reloading and reload notification.
type Config struct {
	mu sync.RWMutex

	// Configuration sources
	path      string
	envPrefix string

	// Layers, lowest priority first
	defaults  map[string]any
	file      map[string]any
	env       map[string]any
	overrides map[string]any
	merged    map[string]any

	// File watcher for live reload
	watcher *watcher.Watcher

	reloadHandlers []func()

	// configErrors stores errors encountered during configuration access.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithPath sets the configuration file. An empty path disables the file
// layer.
func WithPath(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// New creates a Config holding the built-in defaults. Call Load to read the
// file and environment layers.
func New(opts ...Option) *Config {
	c := &Config{
		path:      DefaultPath(),
		envPrefix: loader.DefaultEnvPrefix,
		defaults:  defaultConfig(),
		overrides: make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.merged = c.mergeLocked()
	return c
}

// Load reads the file and environment layers.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked()
}

// Reload re-reads the file and environment layers and runs the reload
// handlers. On error the previous configuration is kept.
func (c *Config) Reload() error {
	c.mu.Lock()
	if err := c.loadLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	handlers := make([]func(), len(c.reloadHandlers))
	copy(handlers, c.reloadHandlers)
	c.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
	return nil
}

// OnReload registers a callback run after every successful Reload.
func (c *Config) OnReload(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reloadHandlers = append(c.reloadHandlers, fn)
}

func (c *Config) loadLocked() error {
	var file map[string]any
	if c.path != "" {
		data, err := loader.NewTOMLLoader(c.path).Load()
		if err != nil {
			return err
		}
		file = data
	}

	var env map[string]any
	if c.envPrefix != "" {
		data, err := loader.NewEnvLoader(c.envPrefix).Load()
		if err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
		env = data
	}

	c.file = file
	c.env = env
	c.configErrors = nil
	c.merged = c.mergeLocked()
	return nil
}

func (c *Config) mergeLocked() map[string]any {
	merged := loader.Clone(c.defaults)
	for _, layer := range []map[string]any{c.file, c.env, c.overrides} {
		merged = loader.DeepMerge(merged, layer)
	}
	return merged
}

// Watch reloads the configuration whenever the file changes, until ctx is
// done or Close is called. Reload errors go to onError.
func (c *Config) Watch(ctx context.Context, onError func(error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" || c.watcher != nil {
		return nil
	}

	w, err := watcher.New(watcher.WithErrorHandler(onError))
	if err != nil {
		return err
	}
	if err := w.Watch(c.path); err != nil {
		_ = w.Close()
		return err
	}

	w.OnChange(func(watcher.Event) {
		if err := c.Reload(); err != nil && onError != nil {
			onError(err)
		}
	})
	w.Start(ctx)
	c.watcher = w
	return nil
}

// Close stops live reloading.
func (c *Config) Close() error {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		return w.Close()
	}
	return nil
}

// Path returns the configuration file path.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return getPath(c.merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetStringSlice returns a string slice at the given path. A single string
// is split on commas.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}

	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...), nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			result[i] = s
		}
		return result, nil
	case string:
		if val == "" {
			return nil, nil
		}
		return strings.Split(val, ","), nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// Set overrides the value at the given path. Overrides survive Reload.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	parts := splitPath(path)
	for i := 1; i < len(parts); i++ {
		if v, ok := getPath(c.merged, strings.Join(parts[:i], ".")); ok {
			if _, isMap := v.(map[string]any); !isMap {
				return fmt.Errorf("%s: %w", path, ErrInvalidPath)
			}
		}
	}

	if err := setPath(c.overrides, path, value); err != nil {
		return err
	}
	c.merged = c.mergeLocked()
	return nil
}

// Merged returns a copy of the fully merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.merged)
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "selectword", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "selectword", "config.toml")
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"logging": map[string]any{
			"level": "info",
			"file":  "",
		},
		"selection": map[string]any{
			"shrinkGuard":   true,
			"maxExpansions": 0,
		},
		"ui": map[string]any{
			"selectionForeground": "black",
			"selectionBackground": "yellow",
			"showStatusBar":       true,
			"tabWidth":            4,
			"scrollMargin":        0,
		},
		"keymap": map[string]any{},
		"plugins": map[string]any{
			"scripts":          []any{},
			"instructionLimit": 1000000,
		},
	}
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = cm[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: %w", path, ErrInvalidPath)
		}
		current = nextMap
	}

	current[parts[len(parts)-1]] = value
	return nil
}

// splitPath splits a dot-separated path into non-empty parts.
func splitPath(path string) []string {
	var parts []string
	for _, part := range strings.Split(path, ".") {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// isNotFound reports whether err means the setting is absent.
func isNotFound(err error) bool {
	return errors.Is(err, ErrSettingNotFound)
}
