// Package validator implements the per-field data quality rules for student
// records. Each validator is a pure predicate over an already-normalized
// value; validation failures are data, never errors.
package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Amanyadav207/sheetguard/internal/domain"
)

var (
	// Simplified RFC 5322 shape: local@domain.tld with a TLD of at least
	// two letters.
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// Unicode letters are allowed so international names are not rejected.
	namePattern = regexp.MustCompile(`^[\p{L}\s\-']+$`)

	phonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)

	departmentPattern = regexp.MustCompile(`^[\p{L}\p{N} ]+$`)
)

// Email validates a required, normalized email address. The reason
// distinguishes missing, malformed, and too-long values.
func Email(value string) (bool, string) {
	if value == "" {
		return false, "email is required"
	}
	if !emailPattern.MatchString(value) {
		return false, fmt.Sprintf("invalid email format: %s", value)
	}
	if len(value) > 255 {
		return false, "email exceeds maximum length of 255 characters"
	}
	return true, ""
}

// Name validates a required student name, 2-255 characters of letters,
// spaces, hyphens, and apostrophes.
func Name(value string) (bool, string) {
	if value == "" {
		return false, "name is required"
	}
	if len([]rune(value)) < 2 {
		return false, "name must be at least 2 characters"
	}
	if len([]rune(value)) > 255 {
		return false, "name exceeds maximum length of 255 characters"
	}
	if !namePattern.MatchString(value) {
		return false, fmt.Sprintf("name contains invalid characters: %s", value)
	}
	return true, ""
}

// Year validates the optional year of study. A raw value that survived
// normalization uncoerced fails with the offending text echoed; a coerced
// value must be 1-4 inclusive.
func Year(year *int, raw string) (bool, string) {
	if raw != "" {
		return false, fmt.Sprintf("year must be a valid integer, got: %s", raw)
	}
	if year == nil {
		return true, ""
	}
	if *year < 1 || *year > 4 {
		return false, fmt.Sprintf("year must be between 1 and 4, got: %d", *year)
	}
	return true, ""
}

// Phone validates the optional phone number: only digits, spaces, hyphens,
// plus, and parentheses, at least 10 digits, at most 20 characters total.
func Phone(value *string) (bool, string) {
	if value == nil || *value == "" {
		return true, ""
	}
	v := *value
	if !phonePattern.MatchString(v) {
		return false, fmt.Sprintf("phone contains invalid characters: %s", v)
	}
	digits := 0
	for _, r := range v {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 10 {
		return false, "phone number must contain at least 10 digits"
	}
	if len(v) > 20 {
		return false, "phone number exceeds maximum length of 20 characters"
	}
	return true, ""
}

// Department validates the optional department name: 2-255 alphanumeric
// characters and spaces.
func Department(value *string) (bool, string) {
	if value == nil || *value == "" {
		return true, ""
	}
	v := *value
	if len([]rune(v)) < 2 {
		return false, "department name must be at least 2 characters"
	}
	if len([]rune(v)) > 255 {
		return false, "department name exceeds maximum length of 255 characters"
	}
	if !departmentPattern.MatchString(v) {
		return false, fmt.Sprintf("department contains invalid characters: %s", v)
	}
	return true, ""
}

// Record validates a complete canonical record. Fields are evaluated in a
// fixed order (email, name, year, phone, department) and the first failure
// wins, so the returned reason is singular and deterministic. The reason is
// prefixed with the failing field name.
func Record(rec domain.CanonicalRecord) (bool, string) {
	if ok, reason := Email(rec.Email); !ok {
		return false, prefixed("email", reason)
	}
	if ok, reason := Name(rec.Name); !ok {
		return false, prefixed("name", reason)
	}
	if ok, reason := Year(rec.Year, rec.YearRaw); !ok {
		return false, prefixed("year", reason)
	}
	if ok, reason := Phone(rec.Phone); !ok {
		return false, prefixed("phone", reason)
	}
	if ok, reason := Department(rec.Department); !ok {
		return false, prefixed("department", reason)
	}
	return true, ""
}

func prefixed(field, reason string) string {
	if strings.HasPrefix(reason, field) {
		return reason
	}
	return fmt.Sprintf("%s: %s", field, reason)
}
