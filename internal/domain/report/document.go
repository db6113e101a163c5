package report

import (
	"time"

	"github.com/kswr/apbd-data-transformer/internal/domain/student"
	"github.com/kswr/apbd-data-transformer/pkg/timeutil"
)

// Author is the fixed author label of every report.
const Author = "Jan Kowalski"

// Document is the final report: metadata, every stored record and the
// per-program summaries.
type Document struct {
	CreatedAt     timeutil.Date
	Author        string
	Students      []*student.Student
	ActiveStudies []TrackSummary
}

// Assembler composes documents. Now is the clock used for CreatedAt;
// nil means time.Now.
type Assembler struct {
	Now func() time.Time
}

// NewAssembler creates an assembler using the system clock.
func NewAssembler() *Assembler {
	return &Assembler{Now: time.Now}
}

// Assemble builds the document. Records and summaries are taken verbatim;
// nothing is validated here.
func (a *Assembler) Assemble(students []*student.Student, summaries []TrackSummary) Document {
	now := time.Now
	if a != nil && a.Now != nil {
		now = a.Now
	}
	return Document{
		CreatedAt:     timeutil.DateOf(now()),
		Author:        Author,
		Students:      students,
		ActiveStudies: summaries,
	}
}
