package student

import (
	"fmt"

	"github.com/kswr/apbd-data-transformer/internal/domain/shared"
)

// Store is the deduplicating set of records of one run. No two stored
// records are Equal. It is owned by a single processing pass and is not
// safe for concurrent use.
type Store struct {
	sink      Sink
	records   []*Student
	firstSeen map[Identity]int
}

// NewStore creates an empty store reporting duplicates to sink. A nil sink
// discards them.
func NewStore(sink Sink) *Store {
	if sink == nil {
		sink = Discard
	}
	return &Store{
		sink:      sink,
		firstSeen: make(map[Identity]int),
	}
}

// Add inserts rec unless an equal record is already stored. On a duplicate
// it reports exactly one DiagnosticDuplicate carrying the rejected line and
// returns false; the store is left unchanged.
func (s *Store) Add(rec *Student, lineNo int, line string) bool {
	if rec == nil {
		return false
	}
	id := rec.Identity()
	if first, ok := s.firstSeen[id]; ok {
		s.sink.Report(Diagnostic{
			Kind:   DiagnosticDuplicate,
			LineNo: lineNo,
			Line:   line,
			Reason: shared.WrapError("student", "Add", ErrDuplicateRecord,
				fmt.Sprintf("%s already added from line %d", id, first), nil),
		})
		return false
	}
	s.firstSeen[id] = lineNo
	s.records = append(s.records, rec)
	return true
}

// Contains reports whether a record equal to rec is stored.
func (s *Store) Contains(rec *Student) bool {
	if rec == nil {
		return false
	}
	_, ok := s.firstSeen[rec.Identity()]
	return ok
}

// All returns the stored records in insertion order. The slice is a copy;
// the records themselves are immutable.
func (s *Store) All() []*Student {
	out := make([]*Student, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}
