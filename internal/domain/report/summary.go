// Package report builds the report document from the stored records:
// per-program counts and the document metadata. It performs no I/O.
package report

import (
	"sort"

	"github.com/kswr/apbd-data-transformer/internal/domain/student"
)

// TrackSummary is the number of students enrolled in one study program.
type TrackSummary struct {
	Name             string
	Program          student.Program
	NumberOfStudents int
}

// Summarize groups records by study program (the mode is ignored) and
// counts each group. Only programs with at least one student appear. The
// result is ordered by program name so reports are reproducible.
func Summarize(students []*student.Student) []TrackSummary {
	counts := make(map[student.Program]int)
	for _, s := range students {
		if s == nil {
			continue
		}
		counts[s.StudyTrack().Program]++
	}

	out := make([]TrackSummary, 0, len(counts))
	for program, n := range counts {
		out = append(out, TrackSummary{
			Name:             program.Label(),
			Program:          program,
			NumberOfStudents: n,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Total returns the sum of NumberOfStudents over all summaries.
func Total(summaries []TrackSummary) int {
	total := 0
	for _, s := range summaries {
		total += s.NumberOfStudents
	}
	return total
}
