package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMMAND LINE
// ══════════════════════════════════════════════════════════════════════════════

const usageText = `usage: transformer [flags] <targetDirectory> <sourceFile> [format]

Reads enrollment lines from sourceFile, validates and deduplicates them and
writes result.<format> into targetDirectory. Rejected and duplicate lines are
recorded in the diagnostic log.

flags:
`

// errUsage marks invocation errors (exit code 2).
var errUsage = errors.New("usage")

// options holds the parsed command line.
type options struct {
	ConfigPath string
	Encoding   string
	Workers    int
	LogFile    string

	TargetDir  string
	SourceFile string
	Format     string
}

// parseArgs parses flags and positional arguments. Paths are sanitized but
// not yet checked against the filesystem.
func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("transformer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.ConfigPath, "config", "", "YAML config file (default $TRANSFORMER_CONFIG)")
	fs.StringVar(&opts.Encoding, "encoding", "", "source charset: utf-8, windows-1250, iso-8859-2")
	fs.IntVar(&opts.Workers, "workers", 0, "concurrent line validators (0 keeps the configured value)")
	fs.StringVar(&opts.LogFile, "log-file", "", "diagnostic log path")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	rest := fs.Args()
	if len(rest) < 2 || len(rest) > 3 {
		fs.Usage()
		return opts, fmt.Errorf("%w: expected 2 or 3 arguments, got %d", errUsage, len(rest))
	}
	if opts.Workers < 0 {
		return opts, fmt.Errorf("%w: --workers must not be negative", errUsage)
	}

	opts.TargetDir = sanitizePath(rest[0])
	opts.SourceFile = sanitizePath(rest[1])
	if len(rest) == 3 {
		opts.Format = strings.TrimSpace(rest[2])
	}
	return opts, nil
}

var quoteStripper = strings.NewReplacer(`"`, "", "„", "", "”", "")

// sanitizePath removes ASCII and Polish typographic quotes that shells and
// word processors leave around pasted paths.
func sanitizePath(raw string) string {
	return strings.TrimSpace(quoteStripper.Replace(raw))
}

// resolveDir returns the absolute path of an existing directory.
func resolveDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: target directory %q: %v", errUsage, path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: target directory %q does not exist", errUsage, abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: target %q is not a directory", errUsage, abs)
	}
	return abs, nil
}

// resolveFile returns the absolute path of an existing regular file.
func resolveFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: source file %q: %v", errUsage, path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: source file %q does not exist", errUsage, abs)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: source %q is not a regular file", errUsage, abs)
	}
	return abs, nil
}
