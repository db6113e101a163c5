package student

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kswr/apbd-data-transformer/internal/domain/shared"
	"github.com/kswr/apbd-data-transformer/pkg/timeutil"
)

// Field limits.
const (
	// IndexPrefix is prepended to the digits of an index number.
	IndexPrefix = "s"
	// MaxIndexDigits is the longest accepted index number.
	MaxIndexDigits = 10
	// MaxNameLength is the longest accepted name, counted in characters
	// before normalization.
	MaxNameLength = 30
)

// emailRegex: local part of word characters, dots and hyphens; one or more
// dot-terminated domain segments; a 2-3 character top-level segment.
var emailRegex = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,3}$`)

// ValidateIndex checks that raw is a non-empty run of at most MaxIndexDigits
// ASCII digits and returns it with IndexPrefix prepended.
func ValidateIndex(raw string) (string, error) {
	if raw == "" {
		return "", shared.WrapError("student", "ValidateIndex", ErrInvalidIndex,
			"index number is empty", nil)
	}
	if len(raw) > MaxIndexDigits {
		return "", shared.WrapError("student", "ValidateIndex", ErrInvalidIndex,
			fmt.Sprintf("index number %q is longer than %d digits", raw, MaxIndexDigits), nil)
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return "", shared.WrapError("student", "ValidateIndex", ErrInvalidIndex,
				fmt.Sprintf("index number %q must contain only digits", raw), nil)
		}
	}
	return IndexPrefix + raw, nil
}

// NormalizeName rejects names longer than MaxNameLength characters and
// strips every digit and hyphen from the rest. field names the column in
// the error message ("first name", "mother's name", ...).
//
// Normalization is idempotent.
func NormalizeName(field, raw string) (string, error) {
	if utf8.RuneCountInString(raw) > MaxNameLength {
		return "", shared.WrapError("student", "NormalizeName", ErrInvalidName,
			fmt.Sprintf("%s %q is longer than %d characters", field, raw, MaxNameLength), nil)
	}
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsDigit(r) {
			return -1
		}
		return r
	}, raw), nil
}

// ValidateEmail checks raw against the accepted address grammar.
func ValidateEmail(raw string) (string, error) {
	if !emailRegex.MatchString(raw) {
		return "", shared.WrapError("student", "ValidateEmail", ErrInvalidEmail,
			fmt.Sprintf("email %q is not a valid address", raw), nil)
	}
	return raw, nil
}

// ParseBirthDate parses raw as a dd.MM.yyyy calendar date.
func ParseBirthDate(raw string) (timeutil.Date, error) {
	d, err := timeutil.ParseDate(raw)
	if err != nil {
		return timeutil.Date{}, shared.WrapError("student", "ParseBirthDate", ErrInvalidBirthDate,
			fmt.Sprintf("birth date %q does not match %s", raw, "dd.MM.yyyy"), err)
	}
	return d, nil
}
