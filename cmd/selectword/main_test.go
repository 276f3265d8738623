package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/selectword/internal/app"
)

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseFlags([]string{
		"-c", "cfg.toml",
		"-line", "2", "-col", "4",
		"-expand", "3", "-shrink", "1",
		"-format", "json",
		"-script", "a.lua", "-script", "b.lua",
		"doc.txt",
	}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}

	if opts.ConfigPath != "cfg.toml" || opts.Line != 2 || opts.Col != 4 {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.Expand != 3 || opts.Shrink != 1 || opts.Offset != nil {
		t.Errorf("unexpected counts %+v", opts)
	}
	if opts.Format != app.FormatJSON {
		t.Errorf("Format = %q", opts.Format)
	}
	if len(opts.Scripts) != 2 || opts.Scripts[1] != "b.lua" {
		t.Errorf("Scripts = %v", opts.Scripts)
	}
	if opts.File != "doc.txt" {
		t.Errorf("File = %q", opts.File)
	}
}

func TestParseFlags_Offset(t *testing.T) {
	opts, err := parseFlags([]string{"-offset", "0"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if opts.Offset == nil || *opts.Offset != 0 {
		t.Errorf("Offset = %v, want 0", opts.Offset)
	}

	opts, err = parseFlags([]string{"-line", "2"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if opts.Offset != nil || opts.Line != 2 {
		t.Errorf("Offset = %v Line = %d, want unset and 2", opts.Offset, opts.Line)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad log level", []string{"-log-level", "loud"}},
		{"bad format", []string{"-format", "xml"}},
		{"two files", []string{"a.txt", "b.txt"}},
		{"unknown flag", []string{"-bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseFlags(tt.args, &bytes.Buffer{}); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	doc := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(doc, []byte("call(alpha beta); x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		code int
		out  string
	}{
		{"select", []string{"-offset", "6", doc}, exitOK, `1 select 5 10 1:6-1:11 "alpha"`},
		{"version", []string{"-version"}, exitOK, "selectword dev"},
		{"help", []string{"-h"}, exitOK, ""},
		{"usage", []string{"-format", "yaml", doc}, exitUsage, ""},
		{"invalid options", []string{"-offset", "1", "-line", "1", doc}, exitUsage, ""},
		{"negative offset", []string{"-offset", "-1", doc}, exitUsage, ""},
		{"line without offset", []string{"-line", "1", "-col", "6", doc}, exitOK, `1 select 5 10 1:6-1:11 "alpha"`},
		{"missing file", []string{filepath.Join(dir, "missing.txt")}, exitError, ""},
		{"offset out of range", []string{"-offset", "99", doc}, exitError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr %q)", code, tt.code, stderr.String())
			}
			if tt.out != "" && !strings.Contains(stdout.String(), tt.out) {
				t.Errorf("stdout = %q, want it to contain %q", stdout.String(), tt.out)
			}
		})
	}
}
