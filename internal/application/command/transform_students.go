// Package command contains the write-side use cases of the transformer.
// Commands run the domain over injected input and hand back values; they
// never touch files themselves.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kswr/apbd-data-transformer/internal/domain/report"
	"github.com/kswr/apbd-data-transformer/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRANSFORM STUDENTS COMMAND
// Parses enrollment lines, deduplicates the records and assembles the report.
// ══════════════════════════════════════════════════════════════════════════════

// TransformStudentsCommand contains the input of one run.
type TransformStudentsCommand struct {
	// Lines are the raw source lines in file order.
	Lines []string

	// CorrelationID for tracing the run in logs.
	CorrelationID string
}

// TransformStudentsResult contains the report and the run counters.
type TransformStudentsResult struct {
	// Document is the assembled report.
	Document report.Document

	// LinesRead is the number of input lines.
	LinesRead int

	// Accepted is the number of records in the document.
	Accepted int

	// Rejected is the number of lines that failed parsing.
	Rejected int

	// Duplicates is the number of parsed lines dropped as duplicates.
	Duplicates int

	// Duration is the processing time.
	Duration time.Duration
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// TransformStudentsHandler handles the TransformStudentsCommand.
type TransformStudentsHandler struct {
	parser    *student.Parser
	assembler *report.Assembler
	sink      student.Sink
	logger    *slog.Logger

	// Configuration
	workers int
}

// TransformStudentsHandlerConfig contains configuration for the handler.
type TransformStudentsHandlerConfig struct {
	// Modes are the accepted study modes.
	Modes student.ModeSet

	// Workers is the number of goroutines validating lines. Records are
	// still added to the store one by one in input order.
	Workers int

	// Now is the report clock; nil means time.Now.
	Now func() time.Time
}

// DefaultTransformStudentsHandlerConfig returns default configuration.
func DefaultTransformStudentsHandlerConfig() TransformStudentsHandlerConfig {
	return TransformStudentsHandlerConfig{
		Modes:   student.DefaultModes(),
		Workers: 1,
		Now:     time.Now,
	}
}

// NewTransformStudentsHandler creates a new TransformStudentsHandler.
// Rejected and duplicate lines are reported to sink.
func NewTransformStudentsHandler(
	sink student.Sink,
	logger *slog.Logger,
	config TransformStudentsHandlerConfig,
) *TransformStudentsHandler {
	if sink == nil {
		sink = student.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &TransformStudentsHandler{
		parser:    student.NewParser(config.Modes),
		assembler: &report.Assembler{Now: config.Now},
		sink:      sink,
		logger:    logger,
		workers:   config.Workers,
	}
}

// outcome is the parse result of a single line.
type outcome struct {
	record    *student.Student
	rejection *student.Rejection
}

// Handle executes the transform students command. Per-line failures are
// reported to the sink and never fail the run; only cancellation does.
func (h *TransformStudentsHandler) Handle(ctx context.Context, cmd TransformStudentsCommand) (*TransformStudentsResult, error) {
	start := time.Now()
	log := h.logger.With("correlation_id", cmd.CorrelationID)

	outcomes, err := h.parseAll(ctx, cmd.Lines)
	if err != nil {
		return nil, fmt.Errorf("transform_students: %w", err)
	}

	result := &TransformStudentsResult{LinesRead: len(cmd.Lines)}
	store := student.NewStore(h.sink)

	for i, o := range outcomes {
		if o.rejection != nil {
			h.sink.Report(o.rejection.Diagnostic())
			result.Rejected++
			log.Debug("line rejected", "line_no", o.rejection.LineNo, "reason", o.rejection.Err)
			continue
		}
		if !store.Add(o.record, i+1, cmd.Lines[i]) {
			result.Duplicates++
			log.Debug("duplicate dropped", "line_no", i+1, "student", o.record.Identity().String())
		}
	}

	records := store.All()
	result.Accepted = len(records)
	result.Document = h.assembler.Assemble(records, report.Summarize(records))
	result.Duration = time.Since(start)

	log.Info("students transformed",
		"lines", result.LinesRead,
		"accepted", result.Accepted,
		"rejected", result.Rejected,
		"duplicates", result.Duplicates,
		"tracks", len(result.Document.ActiveStudies),
		"duration", result.Duration,
	)

	return result, nil
}

// parseAll validates every line. With more than one worker the lines are
// validated concurrently; outcomes keep input order either way.
func (h *TransformStudentsHandler) parseAll(ctx context.Context, lines []string) ([]outcome, error) {
	outcomes := make([]outcome, len(lines))

	if h.workers == 1 {
		for i, line := range lines {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rec, rej := h.parser.ParseLine(i+1, line)
			outcomes[i] = outcome{record: rec, rejection: rej}
		}
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.workers)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, rej := h.parser.ParseLine(i+1, line)
			outcomes[i] = outcome{record: rec, rejection: rej}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
