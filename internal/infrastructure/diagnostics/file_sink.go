// Package diagnostics writes the diagnostic trail of a run: one JSON line per
// rejected or duplicate input line, plus run start, finish and failure
// entries. The log is append-only and never rotated.
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kswr/apbd-data-transformer/internal/domain/student"
	"github.com/kswr/apbd-data-transformer/pkg/logger"
)

// DefaultFileName is the diagnostic log created in the working directory.
const DefaultFileName = "log.txt"

// Sink implements student.Sink on top of the JSON-lines logger.
type Sink struct {
	log    *logger.Logger
	closer io.Closer
}

// NewSink creates a sink writing to w. The caller owns w.
func NewSink(w io.Writer, runID string) *Sink {
	l := logger.New(logger.Options{Output: w, Level: logger.LevelInfo})
	return &Sink{log: l.WithRunID(runID)}
}

// OpenFile opens (creating if needed) the diagnostic log at path in append
// mode. With reset the previous content is discarded first.
func OpenFile(path string, reset bool, runID string) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("diagnostics: create log dir: %w", err)
		}
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if reset {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("diagnostics: open %s: %w", path, err)
	}
	s := NewSink(f, runID)
	s.closer = f
	return s, nil
}

// Report implements student.Sink.
func (s *Sink) Report(d student.Diagnostic) {
	msg := "line rejected"
	if d.Kind == student.DiagnosticDuplicate {
		msg = "duplicate record dropped"
	}
	s.log.Warn(msg,
		logger.Kind(string(d.Kind)),
		logger.LineNo(d.LineNo),
		logger.Line(d.Line),
		logger.Err(d.Reason),
	)
}

// RunStarted records the start of a run.
func (s *Sink) RunStarted(sourceFile, digest string) {
	s.log.Info("run started",
		logger.SourceFile(sourceFile),
		logger.String("source_digest", digest),
	)
}

// RunFinished records the counters and wall time of a completed run.
func (s *Sink) RunFinished(output string, lines, accepted, rejected, duplicates int, elapsed time.Duration) {
	s.log.Info("run finished",
		logger.String("output", output),
		logger.Int("lines", lines),
		logger.Int("accepted", accepted),
		logger.Int("rejected", rejected),
		logger.Int("duplicates", duplicates),
		logger.Duration("elapsed", elapsed),
	)
}

// Failure records an error that aborted the run.
func (s *Sink) Failure(err error) {
	s.log.Error("run failed", logger.Err(err))
}

// Close closes the underlying file when the sink owns one.
func (s *Sink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
