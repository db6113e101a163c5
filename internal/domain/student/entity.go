package student

import (
	"fmt"

	"github.com/kswr/apbd-data-transformer/internal/domain/shared"
	"github.com/kswr/apbd-data-transformer/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrEmptyField - the line has at least one empty column.
	ErrEmptyField = shared.NewDomainError("student", "Parse", shared.ErrEmptyValue, "line contains an empty field")

	// ErrFieldCount - the line does not have exactly FieldCount columns.
	ErrFieldCount = shared.NewDomainError("student", "Parse", shared.ErrInvalidFormat, "unexpected number of fields")

	// ErrInvalidIndex - the index number is not 1-10 digits.
	ErrInvalidIndex = shared.NewDomainError("student", "Validate", shared.ErrInvalidFormat, "invalid index number")

	// ErrInvalidName - a name is longer than MaxNameLength.
	ErrInvalidName = shared.NewDomainError("student", "Validate", shared.ErrValueOutOfRange, "invalid name")

	// ErrInvalidEmail - the email does not match the address grammar.
	ErrInvalidEmail = shared.NewDomainError("student", "Validate", shared.ErrInvalidFormat, "invalid email")

	// ErrUnknownProgram - no known study program label in the column.
	ErrUnknownProgram = shared.NewDomainError("student", "Validate", shared.ErrInvalidInput, "unknown study program")

	// ErrUnknownMode - the study mode is not one of the accepted modes.
	ErrUnknownMode = shared.NewDomainError("student", "Validate", shared.ErrInvalidInput, "unknown study mode")

	// ErrInvalidBirthDate - the birth date is not a dd.MM.yyyy date.
	ErrInvalidBirthDate = shared.NewDomainError("student", "Validate", shared.ErrInvalidFormat, "invalid birth date")

	// ErrDuplicateRecord - a record with the same identity is already stored.
	ErrDuplicateRecord = shared.NewDomainError("student", "Add", shared.ErrAlreadyExists, "duplicate student")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student is a validated enrollment record. All fields are set once by
// NewStudent and never change afterwards.
type Student struct {
	index       string
	firstName   string
	lastName    string
	birthDate   timeutil.Date
	email       string
	mothersName string
	fathersName string
	track       StudyTrack
}

// Identity is the subset of fields that decides whether two records
// describe the same student.
type Identity struct {
	Index     string
	FirstName string
	LastName  string
}

// String returns a compact form for logging.
func (id Identity) String() string {
	return fmt.Sprintf("%s %s %s", id.Index, id.FirstName, id.LastName)
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewStudentParams holds the untrusted column values of one enrollment line.
type NewStudentParams struct {
	FirstName   string
	LastName    string
	Program     string
	Mode        string
	Index       string
	BirthDate   string
	Email       string
	MothersName string
	FathersName string
}

// NewStudent validates and normalizes every field and returns the record.
// Fields are checked in column order and the first failure is returned;
// no partially built record is ever observable.
func NewStudent(params NewStudentParams, modes ModeSet) (*Student, error) {
	if len(modes) == 0 {
		modes = DefaultModes()
	}

	firstName, err := NormalizeName("first name", params.FirstName)
	if err != nil {
		return nil, err
	}

	lastName, err := NormalizeName("last name", params.LastName)
	if err != nil {
		return nil, err
	}

	program, err := ParseProgram(params.Program)
	if err != nil {
		return nil, err
	}

	mode, err := modes.Parse(params.Mode)
	if err != nil {
		return nil, err
	}

	index, err := ValidateIndex(params.Index)
	if err != nil {
		return nil, err
	}

	birthDate, err := ParseBirthDate(params.BirthDate)
	if err != nil {
		return nil, err
	}

	email, err := ValidateEmail(params.Email)
	if err != nil {
		return nil, err
	}

	mothersName, err := NormalizeName("mother's name", params.MothersName)
	if err != nil {
		return nil, err
	}

	fathersName, err := NormalizeName("father's name", params.FathersName)
	if err != nil {
		return nil, err
	}

	return &Student{
		index:       index,
		firstName:   firstName,
		lastName:    lastName,
		birthDate:   birthDate,
		email:       email,
		mothersName: mothersName,
		fathersName: fathersName,
		track:       StudyTrack{Program: program, Mode: mode},
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCESSORS
// ══════════════════════════════════════════════════════════════════════════════

// Index returns the prefixed index number, e.g. "s123456".
func (s *Student) Index() string { return s.index }

// FirstName returns the normalized first name.
func (s *Student) FirstName() string { return s.firstName }

// LastName returns the normalized last name.
func (s *Student) LastName() string { return s.lastName }

// BirthDate returns the birth date.
func (s *Student) BirthDate() timeutil.Date { return s.birthDate }

// Email returns the email address.
func (s *Student) Email() string { return s.email }

// MothersName returns the normalized mother's name.
func (s *Student) MothersName() string { return s.mothersName }

// FathersName returns the normalized father's name.
func (s *Student) FathersName() string { return s.fathersName }

// StudyTrack returns the program and mode.
func (s *Student) StudyTrack() StudyTrack { return s.track }

// Identity returns the dedup key of the record.
func (s *Student) Identity() Identity {
	return Identity{Index: s.index, FirstName: s.firstName, LastName: s.lastName}
}

// Equal reports whether s and other describe the same student. Only the
// index number and the names take part; email, birth date, parents and
// track are ignored.
func (s *Student) Equal(other *Student) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Identity() == other.Identity()
}

// String returns a string representation of the record for logging.
func (s *Student) String() string {
	return fmt.Sprintf(
		"Student{Index: %s, Name: %s %s, Track: %s}",
		s.index, s.firstName, s.lastName, s.track,
	)
}
