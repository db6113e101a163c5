package student

import (
	"fmt"
	"strings"

	"github.com/kswr/apbd-data-transformer/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRAM
// ══════════════════════════════════════════════════════════════════════════════

// Program is the study program a student is enrolled in.
type Program int

const (
	// ProgramUnknown is the zero value and never appears on a valid record.
	ProgramUnknown Program = iota
	// ComputerScience - "Informatyka".
	ComputerScience
	// NewMediaArt - "Sztuka Nowych Mediów".
	NewMediaArt
)

// programLabels holds the source-language label of each program. A raw
// token is recognized when it contains the label.
var programLabels = []struct {
	program Program
	label   string
}{
	{ComputerScience, "Informatyka"},
	{NewMediaArt, "Sztuka Nowych Mediów"},
}

// Programs returns every known program in declaration order.
func Programs() []Program {
	out := make([]Program, 0, len(programLabels))
	for _, p := range programLabels {
		out = append(out, p.program)
	}
	return out
}

// IsValid reports whether p is one of the known programs.
func (p Program) IsValid() bool {
	return p.Label() != ""
}

// Label returns the source-language label used in input files and reports.
func (p Program) Label() string {
	for _, pl := range programLabels {
		if pl.program == p {
			return pl.label
		}
	}
	return ""
}

// String returns the label, or a placeholder for unknown values.
func (p Program) String() string {
	if l := p.Label(); l != "" {
		return l
	}
	return fmt.Sprintf("Program(%d)", int(p))
}

// ParseProgram maps a raw column value to a program. The first program
// whose label appears as a substring of raw wins.
func ParseProgram(raw string) (Program, error) {
	for _, pl := range programLabels {
		if strings.Contains(raw, pl.label) {
			return pl.program, nil
		}
	}
	return ProgramUnknown, shared.WrapError("student", "ParseProgram", ErrUnknownProgram,
		fmt.Sprintf("study program %q is not recognized", raw), nil)
}

// ══════════════════════════════════════════════════════════════════════════════
// MODE
// ══════════════════════════════════════════════════════════════════════════════

// Mode is the attendance mode of a study track.
type Mode int

const (
	// ModeUnknown is the zero value and never appears on a valid record.
	ModeUnknown Mode = iota
	// FullTime - "Dzienne".
	FullTime
	// PartTime - "Zaoczne".
	PartTime
	// Online - "Internetowe". Only accepted when enabled in the ModeSet.
	Online
)

var modeLabels = map[Mode]string{
	FullTime: "Dzienne",
	PartTime: "Zaoczne",
	Online:   "Internetowe",
}

// IsValid reports whether m is one of the known modes.
func (m Mode) IsValid() bool {
	_, ok := modeLabels[m]
	return ok
}

// Label returns the source-language label of the mode.
func (m Mode) Label() string {
	return modeLabels[m]
}

// String returns the label, or a placeholder for unknown values.
func (m Mode) String() string {
	if l, ok := modeLabels[m]; ok {
		return l
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ModeSet is the set of attendance modes accepted by a parser.
type ModeSet []Mode

// DefaultModes returns the modes accepted unless configured otherwise.
func DefaultModes() ModeSet {
	return ModeSet{FullTime, PartTime}
}

// WithOnline returns a copy of the set that also accepts Online.
func (s ModeSet) WithOnline() ModeSet {
	if s.Contains(Online) {
		return s
	}
	out := make(ModeSet, 0, len(s)+1)
	out = append(out, s...)
	return append(out, Online)
}

// Contains reports whether m is in the set.
func (s ModeSet) Contains(m Mode) bool {
	for _, x := range s {
		if x == m {
			return true
		}
	}
	return false
}

// Parse maps a raw column value to a mode by exact label match.
func (s ModeSet) Parse(raw string) (Mode, error) {
	for _, m := range s {
		if modeLabels[m] == raw {
			return m, nil
		}
	}
	return ModeUnknown, shared.WrapError("student", "ParseMode", ErrUnknownMode,
		fmt.Sprintf("study mode %q is not recognized", raw), nil)
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDY TRACK
// ══════════════════════════════════════════════════════════════════════════════

// StudyTrack is the (program, mode) pair a student is enrolled in.
// It is a plain comparable value: two records in the same track hold equal
// StudyTrack values.
type StudyTrack struct {
	Program Program
	Mode    Mode
}

// IsValid reports whether both parts of the track are known.
func (t StudyTrack) IsValid() bool {
	return t.Program.IsValid() && t.Mode.IsValid()
}

// String returns "<program> <mode>".
func (t StudyTrack) String() string {
	return t.Program.String() + " " + t.Mode.String()
}
