// Package config provides the configuration system for selectword.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Set() overrides         │  ← Highest priority (command line)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← SELECTWORD_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/selectword/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: TOML file and environment variable loading
//   - watcher: File watching for live reload
//
// # Basic Usage
//
//	cfg := config.New(config.WithPath("selectword.toml"))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//
//	sel := cfg.Selection()
//	fmt.Println(sel.ShrinkGuard, sel.MaxExpansions)
//
// # Configuration Files
//
//	[logging]
//	level = "debug"
//	file = "/tmp/selectword.log"
//
//	[selection]
//	shrinkGuard = true
//	maxExpansions = 0
//
//	[ui]
//	selectionForeground = "black"
//	selectionBackground = "yellow"
//	showStatusBar = true
//	tabWidth = 4
//	scrollMargin = 2
//
//	[keymap]
//	x = "select"
//	"Ctrl-X" = "shrink"
//
//	[plugins]
//	scripts = ["~/.config/selectword/init.lua"]
//	instructionLimit = 1000000
//
// # Error Handling
//
// Section accessors never fail; values of the wrong type fall back to the
// default and are recorded in Errors(). Validate reports values that have
// the right type but are not allowed.
package config
