package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/selectword/internal/renderer/backend"
)

// Format selects how non-interactive steps are printed.
type Format string

const (
	// FormatText prints one line per step.
	FormatText Format = "text"
	// FormatJSON prints an array of step objects.
	FormatJSON Format = "json"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("format %q: %w", s, ErrInvalidOptions)
	}
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty uses the
	// default location, where a broken file only produces a warning.
	ConfigPath string

	// LogLevel overrides logging.level when set.
	LogLevel string

	// LogFile overrides logging.file when set.
	LogFile string

	// File is the document to load. Empty or "-" reads Input.
	File string

	// Input, Output and ErrOutput default to the process streams.
	Input     io.Reader
	Output    io.Writer
	ErrOutput io.Writer

	// Offset places the cursor by character offset. Nil means unset.
	Offset *int

	// Line and Col place the cursor by 1-based position. Zero means unset.
	Line int
	Col  int

	// Expand is the number of select commands to run.
	Expand int

	// Shrink is the number of shrink commands run after expanding.
	Shrink int

	// Format selects the step output format.
	Format Format

	// Interactive opens the full-screen viewer instead of printing steps.
	Interactive bool

	// Scripts are Lua files run after the configured plugin scripts.
	Scripts []string

	// Backend replaces the terminal in interactive mode.
	Backend backend.Backend
}

// DefaultOptions returns options that select the word at the start of
// standard input.
func DefaultOptions() Options {
	return Options{
		Input:     os.Stdin,
		Output:    os.Stdout,
		ErrOutput: os.Stderr,
		Expand:    1,
		Format:    FormatText,
	}
}

func (o *Options) applyDefaults() {
	if o.Input == nil {
		o.Input = os.Stdin
	}
	if o.Output == nil {
		o.Output = os.Stdout
	}
	if o.ErrOutput == nil {
		o.ErrOutput = os.Stderr
	}
	if o.Format == "" {
		o.Format = FormatText
	}
}

// validate reports option combinations that cannot be honored.
func (o *Options) validate() error {
	errs := NewErrorList()

	if o.Offset != nil && o.Line > 0 {
		errs.Add(fmt.Errorf("offset and line are exclusive: %w", ErrInvalidOptions))
	}
	if o.Offset != nil && *o.Offset < 0 {
		errs.Add(fmt.Errorf("offset must not be negative: %w", ErrInvalidOptions))
	}
	if o.Col > 0 && o.Line == 0 {
		errs.Add(fmt.Errorf("col requires line: %w", ErrInvalidOptions))
	}
	if o.Line < 0 || o.Col < 0 {
		errs.Add(fmt.Errorf("line and col must be positive: %w", ErrInvalidOptions))
	}
	if o.Expand < 0 || o.Shrink < 0 {
		errs.Add(fmt.Errorf("expand and shrink must not be negative: %w", ErrInvalidOptions))
	}
	if _, err := ParseFormat(string(o.Format)); err != nil {
		errs.Add(err)
	}

	return errs.AsError()
}
