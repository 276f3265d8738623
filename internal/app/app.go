// Package app wires configuration, logging, the selection engine, Lua
// scripts and the interactive viewer into the selectword program.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/dshills/selectword/internal/config"
	"github.com/dshills/selectword/internal/engine"
	"github.com/dshills/selectword/internal/plugin/lua"
)

// App is the selectword program: one document, its engine and the
// surrounding configuration.
type App struct {
	opts    Options
	config  *config.Config
	logger  *Logger
	logFile io.Closer
	doc     *Document
	metrics *Metrics

	running      atomic.Bool
	shutdownOnce sync.Once
}

// New creates an App and loads its configuration and document.
func New(opts Options) (*App, error) {
	opts.applyDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	app := &App{
		opts:    opts,
		metrics: NewMetrics(),
	}

	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

func (app *App) bootstrap() error {
	configErr := app.initConfig()
	if configErr != nil && app.opts.ConfigPath != "" {
		return NewOperationError("config", app.opts.ConfigPath, configErr)
	}

	if err := app.initLogger(); err != nil {
		return err
	}
	if configErr != nil {
		app.logger.Warn("using default configuration: %v", configErr)
	}
	for _, err := range app.config.Validate() {
		app.logger.Warn("config: %v", err)
	}

	doc, err := LoadDocument(app.opts.File, app.opts.Input, app.engineOptions()...)
	if err != nil {
		return err
	}
	app.doc = doc
	app.logger.WithFields(map[string]any{
		"characters": doc.Engine.Len(),
		"engine":     doc.Engine.ID(),
	}).Debug("loaded %s", doc.Name)

	return app.placeCursor()
}

// initConfig loads the configuration. On error the defaults stay in place.
func (app *App) initConfig() error {
	var cfgOpts []config.Option
	if app.opts.ConfigPath != "" {
		cfgOpts = append(cfgOpts, config.WithPath(app.opts.ConfigPath))
	}
	app.config = config.New(cfgOpts...)

	loadErr := app.config.Load(context.Background())

	if app.opts.LogLevel != "" {
		if err := app.config.Set("logging.level", app.opts.LogLevel); err != nil {
			return err
		}
	}
	if app.opts.LogFile != "" {
		if err := app.config.Set("logging.file", app.opts.LogFile); err != nil {
			return err
		}
	}
	return loadErr
}

// initLogger builds the application logger from the logging section.
// Interactive runs always log to a file so the screen stays clean.
func (app *App) initLogger() error {
	settings := app.config.Logging()

	path := settings.File
	if path == "" && app.opts.Interactive {
		path = defaultLogPath()
	}

	var output io.Writer = app.opts.ErrOutput
	if path != "" {
		f, err := OpenLogFile(path)
		if err != nil {
			return err
		}
		app.logFile = f
		output = f
	}

	app.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(settings.Level),
		Output: output,
		Prefix: "selectword",
	})
	return nil
}

func (app *App) engineOptions() []engine.Option {
	sel := app.config.Selection()
	return []engine.Option{
		engine.WithShrinkGuard(sel.ShrinkGuard),
		engine.WithMaxExpansions(sel.MaxExpansions),
		engine.WithTabWidth(app.config.UI().TabWidth),
		engine.WithLogger(app.logger.WithComponent("engine")),
	}
}

// placeCursor applies the -line/-col or -offset options.
func (app *App) placeCursor() error {
	eng := app.doc.Engine

	switch {
	case app.opts.Line > 0:
		col := app.opts.Col
		if col == 0 {
			col = 1
		}
		if err := eng.SetCursorPoint(app.opts.Line-1, col-1); err != nil {
			return NewOperationError("cursor", app.doc.Name, err).
				WithContext(fmt.Sprintf("line %d col %d", app.opts.Line, col))
		}
	case app.opts.Offset != nil:
		if err := eng.SetCursor(*app.opts.Offset); err != nil {
			return NewOperationError("cursor", app.doc.Name, err)
		}
	}
	return nil
}

// defaultLogPath returns the log file used by interactive runs when none is
// configured.
func defaultLogPath() string {
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "selectword", "selectword.log")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "selectword", "selectword.log")
	}
	return filepath.Join(os.TempDir(), "selectword.log")
}

// Run executes the configured scripts and then either prints the selection
// steps or opens the interactive viewer.
func (app *App) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.runScripts(ctx); err != nil {
		return err
	}

	if app.opts.Interactive {
		return app.runInteractive(ctx)
	}

	steps, runErr := app.runSteps(ctx)
	if err := writeSteps(app.opts.Output, app.opts.Format, steps); err != nil {
		return WrapError(err, "write steps")
	}
	return runErr
}

// runScripts runs plugins.scripts followed by the -script files against the
// document. All scripts share one Lua state.
func (app *App) runScripts(ctx context.Context) error {
	plugins := app.config.Plugins()
	scripts := append(plugins.Scripts, app.opts.Scripts...)
	if len(scripts) == 0 {
		return nil
	}

	state, err := lua.NewState(
		lua.WithOutput(app.opts.Output),
		lua.WithInstructionLimit(int64(plugins.InstructionLimit)),
	)
	if err != nil {
		return WrapError(err, "create lua state")
	}
	defer state.Close()

	state.OpenSelectword(app.doc.Engine)
	state.SetConfig(app.config.Merged())

	log := app.logger.WithComponent("lua")
	for _, path := range scripts {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Debug("running %s", path)
		if err := state.DoFile(ctx, path); err != nil {
			return NewOperationError("script", path, err)
		}
	}
	log.Debug("ran %d scripts", len(scripts))
	return nil
}

// Config returns the application's configuration.
func (app *App) Config() *config.Config {
	return app.config
}

// Document returns the loaded document.
func (app *App) Document() *Document {
	return app.doc
}

// IsRunning returns true while Run is executing.
func (app *App) IsRunning() bool {
	return app.running.Load()
}

// Shutdown releases the config watcher and the log file. It is safe to call
// more than once.
func (app *App) Shutdown() {
	app.shutdownOnce.Do(func() {
		if app.logger != nil {
			app.logger.Debug("session: %s", app.metrics.Snapshot())
		}
		if app.config != nil {
			if err := app.config.Close(); err != nil && app.logger != nil {
				app.logger.Warn("close config: %v", err)
			}
		}
		if app.logFile != nil {
			app.logger.Disable()
			if err := app.logFile.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
				fmt.Fprintf(app.opts.ErrOutput, "selectword: close log: %v\n", err)
			}
		}
	})
}
