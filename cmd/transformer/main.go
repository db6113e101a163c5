// Command transformer converts a student enrollment file into a report.
//
// Usage:
//
//	transformer [flags] <targetDirectory> <sourceFile> [format]
//
// The report is written to <targetDirectory>/result.<format>; format is
// json, yaml or xlsx and defaults to the configured output format.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/kswr/apbd-data-transformer/config"
	"github.com/kswr/apbd-data-transformer/internal/application/command"
	"github.com/kswr/apbd-data-transformer/internal/domain/student"
	"github.com/kswr/apbd-data-transformer/internal/infrastructure/diagnostics"
	"github.com/kswr/apbd-data-transformer/internal/infrastructure/export"
	"github.com/kswr/apbd-data-transformer/internal/infrastructure/source"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. COMMAND LINE AND CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	runID := uuid.New().String()

	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return failEarly(opts.LogFile, runID, stderr, err)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return failEarly(opts.LogFile, runID, stderr, err)
	}

	log := setupLogger(cfg, stdout).With("run_id", runID)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. DIAGNOSTIC LOG
	// ─────────────────────────────────────────────────────────────────────────
	sink, err := diagnostics.OpenFile(cfg.Diagnostics.LogFile, cfg.Diagnostics.Reset, runID)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Warn("failed to close diagnostic log", "error", err)
		}
	}()

	fail := func(code int, err error) int {
		sink.Failure(err)
		log.Error("run failed", "error", err)
		fmt.Fprintf(stderr, "error: %v\n", err)
		return code
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ARGUMENT VALIDATION
	// ─────────────────────────────────────────────────────────────────────────
	targetDir, err := resolveDir(opts.TargetDir)
	if err != nil {
		return fail(exitUsage, err)
	}
	sourceFile, err := resolveFile(opts.SourceFile)
	if err != nil {
		return fail(exitUsage, err)
	}
	format := opts.Format
	if format == "" {
		format = cfg.Output.Format
	}
	encoder, err := export.Lookup(format)
	if err != nil {
		return fail(exitUsage, err)
	}
	encoding, err := source.ParseEncoding(cfg.Input.Encoding)
	if err != nil {
		return fail(exitUsage, err)
	}

	log.Info("starting transformer",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"source", sourceFile,
		"target", targetDir,
		"format", encoder.Format(),
		"workers", cfg.Parser.Workers,
		"online_mode", cfg.Features.OnlineModeEnabled(),
	)
	for name, feature := range cfg.Features.GetAllFeatures() {
		log.Debug("feature flag", "name", name, "enabled", feature.Enabled)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. READ, TRANSFORM, EXPORT
	// ─────────────────────────────────────────────────────────────────────────
	started := time.Now()

	src, err := source.ReadFile(ctx, sourceFile, encoding)
	if err != nil {
		return fail(exitFailure, err)
	}
	sink.RunStarted(src.Path, src.Digest)

	handlerCfg := command.DefaultTransformStudentsHandlerConfig()
	handlerCfg.Workers = cfg.Parser.Workers
	if cfg.Features.OnlineModeEnabled() {
		handlerCfg.Modes = student.DefaultModes().WithOnline()
	}
	handler := command.NewTransformStudentsHandler(sink, log, handlerCfg)

	res, err := handler.Handle(ctx, command.TransformStudentsCommand{
		Lines:         src.Lines,
		CorrelationID: runID,
	})
	if err != nil {
		return fail(exitFailure, err)
	}

	writer := export.Writer{Atomic: cfg.Features.AtomicWriteEnabled()}
	output, err := writer.Write(ctx, targetDir, encoder, res.Document)
	if err != nil {
		return fail(exitFailure, err)
	}

	elapsed := time.Since(started)
	sink.RunFinished(output, res.LinesRead, res.Accepted, res.Rejected, res.Duplicates, elapsed)
	log.Info("run summary",
		"lines", res.LinesRead,
		"accepted", res.Accepted,
		"rejected", res.Rejected,
		"duplicates", res.Duplicates,
		"source_digest", src.Digest,
		"output", output,
		"elapsed", elapsed,
	)

	return exitOK
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// failEarly reports an error raised before the configuration is known. The
// error still goes to the diagnostic log, at path or the default file name.
func failEarly(path, runID string, stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "error: %v\n", err)
	if path == "" {
		path = diagnostics.DefaultFileName
	}
	sink, openErr := diagnostics.OpenFile(path, true, runID)
	if openErr != nil {
		fmt.Fprintf(stderr, "error: %v\n", openErr)
		return exitUsage
	}
	sink.Failure(err)
	_ = sink.Close()
	return exitUsage
}

// loadConfig loads the configuration, applies command line overrides and
// resolves the charset and default report format names.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.Encoding != "" {
		cfg.Input.Encoding = opts.Encoding
	}
	if opts.Workers > 0 {
		cfg.Parser.Workers = opts.Workers
	}
	if opts.LogFile != "" {
		cfg.Diagnostics.LogFile = opts.LogFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var errs []error
	if _, err := source.ParseEncoding(cfg.Input.Encoding); err != nil {
		errs = append(errs, fmt.Errorf("INPUT_ENCODING: %w", err))
	}
	if cfg.Output.Format != "" {
		if _, err := export.Lookup(cfg.Output.Format); err != nil {
			errs = append(errs, fmt.Errorf("OUTPUT_FORMAT: %w", err))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// setupLogger configures structured operational logging.
func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Observability.LogLevel),
	}

	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	if cfg.IsProduction() || cfg.Observability.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
