// Package timeutil provides a calendar date value (no time of day) and the
// date layout used by enrollment files and reports.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is the dd.MM.yyyy layout used in source files and reports.
const DateLayout = "02.01.2006"

// Date is a calendar date without a time component.
// The zero value is not a valid date; use IsZero to check.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate creates a date, normalizing overflowing components the way
// time.Date does (e.g. 31.02 becomes 03.03).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses s using DateLayout. The parse is strict: the value must
// be a real calendar day.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date using DateLayout.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler; JSON and YAML encoders
// both pick it up.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return fmt.Errorf("timeutil: invalid date %q: %w", string(b), err)
	}
	*d = parsed
	return nil
}
