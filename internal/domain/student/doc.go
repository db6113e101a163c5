// Package student contains the enrollment domain model.
//
// The package defines:
//
//   - Entity: Student, an immutable validated record with an Identity
//   - Value objects: StudyTrack (Program + Mode), ModeSet
//   - Field rules: ValidateIndex, NormalizeName, ValidateEmail,
//     ParseProgram, ModeSet.Parse, ParseBirthDate
//   - Parser: one comma separated line in, a record or a classified error out
//   - Store: deduplicating set of records keyed by Identity
//   - Diagnostics: the Sink through which rejected and duplicate lines leave
//     the domain
//
// # Line format
//
// A line has exactly nine non-empty, comma separated columns:
//
//	first name, last name, program, mode, index, birth date, email, mother's name, father's name
//
// For example:
//
//	Jan,Kowalski,Informatyka,Dzienne,123456,01.01.2000,jan@example.com,Anna,Piotr
//
// yields the record with index "s123456" in track ComputerScience/FullTime.
//
// # Identity
//
// Two records are the same student when index number, first name and last
// name match exactly. The store keeps the first one and reports the rest:
//
//	collector := NewCollector()
//	store := NewStore(collector)
//	parser := NewParser(DefaultModes())
//	for i, line := range lines {
//	    rec, rej := parser.ParseLine(i+1, line)
//	    if rej != nil {
//	        collector.Report(rej.Diagnostic())
//	        continue
//	    }
//	    store.Add(rec, i+1, line)
//	}
//
// # Errors
//
// Every failure wraps one of the sentinels (ErrEmptyField, ErrFieldCount,
// ErrInvalidIndex, ErrInvalidName, ErrInvalidEmail, ErrUnknownProgram,
// ErrUnknownMode, ErrInvalidBirthDate, ErrDuplicateRecord) and can be
// classified with errors.Is.
package student
