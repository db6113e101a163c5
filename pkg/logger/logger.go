// Package logger provides the JSON-lines logger behind the diagnostic log.
// Every call writes exactly one line, so the file can be appended to and
// read back line by line.
// No external dependencies - uses only standard library.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level int

const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo is for general operational information.
	LevelInfo
	// LevelWarn is for recoverable problems such as rejected lines.
	LevelWarn
	// LevelError is for failures that abort a run.
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// Common field constructors for convenience.
func String(key, value string) Field  { return Field{Key: key, Value: value} }
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Err creates an error field.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// LogEntry represents a single log entry.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Logger writes LogEntry values as JSON lines.
type Logger struct {
	mu     *sync.Mutex
	output io.Writer
	level  Level
	fields []Field
	now    func() time.Time
}

// Options configures the logger.
type Options struct {
	Output io.Writer
	Level  Level
	// Now is the timestamp clock; nil means time.Now.
	Now func() time.Time
}

// New creates a new Logger with the given options.
func New(opts Options) *Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Logger{
		mu:     &sync.Mutex{},
		output: opts.Output,
		level:  opts.Level,
		now:    opts.Now,
		fields: make([]Field, 0),
	}
}

// With returns a new Logger with the given fields added. The child shares
// the parent's output and lock.
func (l *Logger) With(fields ...Field) *Logger {
	newLogger := &Logger{
		mu:     l.mu,
		output: l.output,
		level:  l.level,
		now:    l.now,
		fields: make([]Field, len(l.fields)+len(fields)),
	}
	copy(newLogger.fields, l.fields)
	copy(newLogger.fields[len(l.fields):], fields)
	return newLogger
}

// log is the internal logging method.
func (l *Logger) log(level Level, msg string, fields ...Field) {
	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: l.now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
	}

	// Merge base fields and additional fields
	allFields := make([]Field, 0, len(l.fields)+len(fields))
	allFields = append(allFields, l.fields...)
	allFields = append(allFields, fields...)

	if len(allFields) > 0 {
		entry.Fields = make(map[string]any, len(allFields))
		for _, f := range allFields {
			entry.Fields[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		// Fallback to simple format on marshal error
		data = []byte(fmt.Sprintf("%s [%s] %s", entry.Timestamp, entry.Level, msg))
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.output.Write(data)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...Field) {
	l.log(LevelError, msg, fields...)
}

// RunIDKey is the field key carrying the run correlation id.
const RunIDKey = "run_id"

// WithRunID returns a logger with the run id field added.
func (l *Logger) WithRunID(runID string) *Logger {
	return l.With(String(RunIDKey, runID))
}

// Enrollment-related logging helpers.
func LineNo(n int) Field           { return Int("line_no", n) }
func Line(text string) Field       { return String("line", text) }
func Kind(kind string) Field       { return String("kind", kind) }
func SourceFile(path string) Field { return String("source_file", path) }
