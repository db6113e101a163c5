package export

import (
	"github.com/kswr/apbd-data-transformer/internal/domain/report"
	"github.com/kswr/apbd-data-transformer/internal/domain/student"
	"github.com/kswr/apbd-data-transformer/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORT DTOs
// The serialized shape of a report. Keys are camelCase; dates use dd.MM.yyyy
// through timeutil.Date's text marshaling.
// ══════════════════════════════════════════════════════════════════════════════

// ReportDTO is the top-level document.
type ReportDTO struct {
	Uczelnia UniversityDTO `json:"uczelnia" yaml:"uczelnia"`
}

// UniversityDTO carries the report metadata, records and summaries.
type UniversityDTO struct {
	CreatedAt     timeutil.Date       `json:"createdAt" yaml:"createdAt"`
	Author        string              `json:"author" yaml:"author"`
	Studenci      []StudentDTO        `json:"studenci" yaml:"studenci"`
	ActiveStudies []StudiesSummaryDTO `json:"activeStudies" yaml:"activeStudies"`
}

// StudentDTO is one serialized record.
type StudentDTO struct {
	IndexNumber string        `json:"indexNumber" yaml:"indexNumber"`
	FirstName   string        `json:"firstName" yaml:"firstName"`
	LastName    string        `json:"lastName" yaml:"lastName"`
	BirthDate   timeutil.Date `json:"birthDate" yaml:"birthDate"`
	Email       string        `json:"email" yaml:"email"`
	MothersName string        `json:"mothersName" yaml:"mothersName"`
	FathersName string        `json:"fathersName" yaml:"fathersName"`
	Studies     StudiesDTO    `json:"studies" yaml:"studies"`
}

// StudiesDTO is the serialized study track.
type StudiesDTO struct {
	Name string `json:"name" yaml:"name"`
	Mode string `json:"mode" yaml:"mode"`
}

// StudiesSummaryDTO is one per-program count.
type StudiesSummaryDTO struct {
	Name             string `json:"name" yaml:"name"`
	NumberOfStudents int    `json:"numberOfStudents" yaml:"numberOfStudents"`
}

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER
// ══════════════════════════════════════════════════════════════════════════════

// FromDocument maps a report document to its serialized shape. Empty
// collections are emitted as empty lists, never null.
func FromDocument(doc report.Document) ReportDTO {
	students := make([]StudentDTO, 0, len(doc.Students))
	for _, s := range doc.Students {
		if s == nil {
			continue
		}
		students = append(students, FromStudent(s))
	}

	summaries := make([]StudiesSummaryDTO, 0, len(doc.ActiveStudies))
	for _, ts := range doc.ActiveStudies {
		summaries = append(summaries, StudiesSummaryDTO{
			Name:             ts.Name,
			NumberOfStudents: ts.NumberOfStudents,
		})
	}

	return ReportDTO{
		Uczelnia: UniversityDTO{
			CreatedAt:     doc.CreatedAt,
			Author:        doc.Author,
			Studenci:      students,
			ActiveStudies: summaries,
		},
	}
}

// FromStudent maps one record.
func FromStudent(s *student.Student) StudentDTO {
	track := s.StudyTrack()
	return StudentDTO{
		IndexNumber: s.Index(),
		FirstName:   s.FirstName(),
		LastName:    s.LastName(),
		BirthDate:   s.BirthDate(),
		Email:       s.Email(),
		MothersName: s.MothersName(),
		FathersName: s.FathersName(),
		Studies: StudiesDTO{
			Name: track.Program.Label(),
			Mode: track.Mode.Label(),
		},
	}
}
