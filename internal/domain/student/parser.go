package student

import (
	"fmt"
	"strings"

	"github.com/kswr/apbd-data-transformer/internal/domain/shared"
)

// Line format.
const (
	// Delimiter separates columns.
	Delimiter = ","
	// FieldCount is the exact number of columns per line.
	FieldCount = 9
)

// Column positions.
const (
	colFirstName = iota
	colLastName
	colProgram
	colMode
	colIndex
	colBirthDate
	colEmail
	colMothersName
	colFathersName
)

// Rejection is the outcome of a line that could not be turned into a
// record. It wraps the classified reason, so errors.Is works against the
// package sentinels.
type Rejection struct {
	LineNo int
	Line   string
	Err    error
}

// Error implements error.
func (r *Rejection) Error() string {
	return fmt.Sprintf("line %d rejected: %v", r.LineNo, r.Err)
}

// Unwrap returns the classified reason.
func (r *Rejection) Unwrap() error {
	return r.Err
}

// Diagnostic converts the rejection to a sink event.
func (r *Rejection) Diagnostic() Diagnostic {
	return Diagnostic{Kind: DiagnosticRejected, LineNo: r.LineNo, Line: r.Line, Reason: r.Err}
}

// Parser turns raw lines into records. It holds no per-line state, so one
// Parser may be shared between goroutines.
type Parser struct {
	modes ModeSet
}

// NewParser creates a parser accepting the given study modes. An empty set
// means DefaultModes.
func NewParser(modes ModeSet) *Parser {
	if len(modes) == 0 {
		modes = DefaultModes()
	}
	return &Parser{modes: modes}
}

// Modes returns the accepted study modes.
func (p *Parser) Modes() ModeSet {
	return p.modes
}

// Parse validates one line. Every input yields either a record or an error
// classified by one of the package sentinels; it never panics.
func (p *Parser) Parse(line string) (*Student, error) {
	fields := strings.Split(line, Delimiter)

	for i, f := range fields {
		if f == "" {
			return nil, shared.WrapError("student", "Parse", ErrEmptyField,
				fmt.Sprintf("field %d of %d is empty", i+1, len(fields)), nil)
		}
	}

	if len(fields) != FieldCount {
		return nil, shared.WrapError("student", "Parse", ErrFieldCount,
			fmt.Sprintf("expected %d fields, got %d", FieldCount, len(fields)), nil)
	}

	return NewStudent(NewStudentParams{
		FirstName:   fields[colFirstName],
		LastName:    fields[colLastName],
		Program:     fields[colProgram],
		Mode:        fields[colMode],
		Index:       fields[colIndex],
		BirthDate:   fields[colBirthDate],
		Email:       fields[colEmail],
		MothersName: fields[colMothersName],
		FathersName: fields[colFathersName],
	}, p.modes)
}

// ParseLine is Parse with the failure wrapped in a *Rejection that carries
// the line number and original text.
func (p *Parser) ParseLine(lineNo int, line string) (*Student, *Rejection) {
	rec, err := p.Parse(line)
	if err != nil {
		return nil, &Rejection{LineNo: lineNo, Line: line, Err: err}
	}
	return rec, nil
}
