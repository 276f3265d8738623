// Package main is the entry point for selectword.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/selectword/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errHelp and errVersion end flag parsing without running the program.
var (
	errHelp    = errors.New("help requested")
	errVersion = errors.New("version requested")
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	switch {
	case errors.Is(err, errHelp):
		return exitOK
	case errors.Is(err, errVersion):
		fmt.Fprintf(stdout, "selectword %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return exitOK
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	opts.Output = stdout
	opts.ErrOutput = stderr

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		if errors.Is(err, app.ErrInvalidOptions) {
			return exitUsage
		}
		return exitError
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	return exitOK
}

// scriptList collects repeated -script flags.
type scriptList []string

func (s *scriptList) String() string {
	return strings.Join(*s, ",")
}

func (s *scriptList) Set(path string) error {
	*s = append(*s, path)
	return nil
}

func parseFlags(args []string, stderr io.Writer) (app.Options, error) {
	opts := app.DefaultOptions()
	var (
		showVersion bool
		showHelp    bool
		format      string
		scripts     scriptList
		offset      int
	)

	fs := flag.NewFlagSet("selectword", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")
	fs.IntVar(&offset, "offset", 0, "Cursor offset in characters")
	fs.IntVar(&opts.Line, "line", 0, "Cursor line (1-based)")
	fs.IntVar(&opts.Col, "col", 0, "Cursor column (1-based, requires -line)")
	fs.IntVar(&opts.Expand, "expand", 1, "Number of select commands")
	fs.IntVar(&opts.Shrink, "shrink", 0, "Number of shrink commands after expanding")
	fs.StringVar(&format, "format", "text", "Output format (text, json)")
	fs.BoolVar(&opts.Interactive, "interactive", false, "Open the interactive viewer")
	fs.BoolVar(&opts.Interactive, "i", false, "Open the interactive viewer (shorthand)")
	fs.Var(&scripts, "script", "Lua script to run against the document (repeatable)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&showHelp, "help", false, "Show help message")
	fs.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "selectword - grow and shrink text selections\n\n")
		fmt.Fprintf(stderr, "Usage: selectword [options] [file|-]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  selectword -offset 12 main.go              Select the word at offset 12\n")
		fmt.Fprintf(stderr, "  selectword -line 3 -col 8 -expand 3 f.c    Grow the selection three times\n")
		fmt.Fprintf(stderr, "  echo 'f(a, b)' | selectword -offset 2 -format json\n")
		fmt.Fprintf(stderr, "  selectword -i notes.txt                    Open the viewer\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errHelp
		}
		return opts, err
	}

	if showHelp {
		fs.Usage()
		return opts, errHelp
	}
	if showVersion {
		return opts, errVersion
	}

	if opts.LogLevel != "" {
		switch strings.ToLower(opts.LogLevel) {
		case "debug", "info", "warn", "warning", "error":
		default:
			return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
		}
	}

	f, err := app.ParseFormat(format)
	if err != nil {
		return opts, err
	}
	opts.Format = f
	opts.Scripts = scripts
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "offset" {
			opts.Offset = &offset
		}
	})

	switch fs.NArg() {
	case 0:
	case 1:
		opts.File = fs.Arg(0)
	default:
		return opts, fmt.Errorf("expected at most one file, got %d", fs.NArg())
	}

	return opts, nil
}
