package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/kswr/apbd-data-transformer/internal/domain/report"
)

// JSONEncoder writes indented JSON without HTML escaping, so Polish
// characters and '&' stay readable.
type JSONEncoder struct{}

// Format implements Encoder.
func (JSONEncoder) Format() Format { return FormatJSON }

// Extension implements Encoder.
func (JSONEncoder) Extension() string { return "json" }

// Encode implements Encoder.
func (JSONEncoder) Encode(w io.Writer, doc report.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(FromDocument(doc))
}

// YAMLEncoder writes the same shape as JSON in YAML.
type YAMLEncoder struct{}

// Format implements Encoder.
func (YAMLEncoder) Format() Format { return FormatYAML }

// Extension implements Encoder.
func (YAMLEncoder) Extension() string { return "yaml" }

// Encode implements Encoder.
func (YAMLEncoder) Encode(w io.Writer, doc report.Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromDocument(doc)); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Workbook sheet names.
const (
	SheetUniversity    = "uczelnia"
	SheetStudents      = "studenci"
	SheetActiveStudies = "activeStudies"
)

var studentHeader = []interface{}{
	"indexNumber", "firstName", "lastName", "birthDate", "email",
	"mothersName", "fathersName", "studiesName", "studiesMode",
}

// XLSXEncoder writes a workbook with a metadata sheet, one row per student
// and one row per program summary.
type XLSXEncoder struct{}

// Format implements Encoder.
func (XLSXEncoder) Format() Format { return FormatXLSX }

// Extension implements Encoder.
func (XLSXEncoder) Extension() string { return "xlsx" }

// Encode implements Encoder.
func (XLSXEncoder) Encode(w io.Writer, doc report.Document) (err error) {
	dto := FromDocument(doc).Uczelnia

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SheetUniversity); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	if err := setRow(f, SheetUniversity, 1, []interface{}{"createdAt", dto.CreatedAt.String()}); err != nil {
		return err
	}
	if err := setRow(f, SheetUniversity, 2, []interface{}{"author", dto.Author}); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetStudents); err != nil {
		return fmt.Errorf("xlsx: create sheet %s: %w", SheetStudents, err)
	}
	if err := setRow(f, SheetStudents, 1, studentHeader); err != nil {
		return err
	}
	for i, s := range dto.Studenci {
		row := []interface{}{
			s.IndexNumber, s.FirstName, s.LastName, s.BirthDate.String(), s.Email,
			s.MothersName, s.FathersName, s.Studies.Name, s.Studies.Mode,
		}
		if err := setRow(f, SheetStudents, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetActiveStudies); err != nil {
		return fmt.Errorf("xlsx: create sheet %s: %w", SheetActiveStudies, err)
	}
	if err := setRow(f, SheetActiveStudies, 1, []interface{}{"name", "numberOfStudents"}); err != nil {
		return err
	}
	for i, ts := range dto.ActiveStudies {
		if err := setRow(f, SheetActiveStudies, i+2, []interface{}{ts.Name, ts.NumberOfStudents}); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: write %s!%s: %w", sheet, cell, err)
	}
	return nil
}
