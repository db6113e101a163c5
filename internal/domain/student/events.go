package student

import (
	"fmt"
	"sync"
)

// DiagnosticKind classifies a diagnostic event.
type DiagnosticKind string

const (
	// DiagnosticRejected - a line failed parsing or validation.
	DiagnosticRejected DiagnosticKind = "line.rejected"
	// DiagnosticDuplicate - a line parsed but its record was already stored.
	DiagnosticDuplicate DiagnosticKind = "record.duplicate"
)

// Diagnostic is emitted for every line that does not end up in the store.
type Diagnostic struct {
	Kind   DiagnosticKind
	LineNo int
	Line   string
	Reason error
}

// String returns a one-line description for logs.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s line %d: %v", d.Kind, d.LineNo, d.Reason)
}

// Sink receives diagnostic events. Implementations decide where they go;
// the domain never writes them anywhere itself.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(d Diagnostic)

// Report implements Sink.
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// MultiSink fans one event out to several sinks in order.
func MultiSink(sinks ...Sink) Sink {
	return SinkFunc(func(d Diagnostic) {
		for _, s := range sinks {
			if s != nil {
				s.Report(d)
			}
		}
	})
}

// Collector keeps events in memory. Safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	events []Diagnostic
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Report implements Sink.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, d)
}

// Events returns a copy of the collected events in arrival order.
func (c *Collector) Events() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.events))
	copy(out, c.events)
	return out
}

// Count returns the number of events of the given kind.
func (c *Collector) Count(kind DiagnosticKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
