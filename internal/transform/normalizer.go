package transform

import (
	"math"
	"strconv"
	"strings"

	"github.com/Amanyadav207/sheetguard/internal/domain"
)

// Canonical field names the pipeline understands.
const (
	FieldEmail      = "email"
	FieldName       = "name"
	FieldYear       = "year"
	FieldPhone      = "phone"
	FieldDepartment = "department"
)

// Normalizer maps raw rows into canonical records. Column renaming is a
// declared configuration: mapping associates each canonical field with the
// source column it is read from. Values are cleaned deterministically; the
// raw row itself is never touched.
type Normalizer struct {
	mapping map[string]string
}

// NewNormalizer builds a normalizer. A nil or partial mapping falls back to
// the canonical field name as the source column.
func NewNormalizer(mapping map[string]string) *Normalizer {
	m := make(map[string]string, 5)
	for _, field := range []string{FieldEmail, FieldName, FieldYear, FieldPhone, FieldDepartment} {
		m[field] = field
		if mapping != nil && mapping[field] != "" {
			m[field] = mapping[field]
		}
	}
	return &Normalizer{mapping: m}
}

// Normalize cleans one raw row into a canonical record. It never fails:
// a year value that cannot be coerced is carried through as text so the
// validator reports the precise failure.
func (n *Normalizer) Normalize(row domain.RawRow) domain.CanonicalRecord {
	rec := domain.CanonicalRecord{}

	rec.Email = strings.ToLower(strings.TrimSpace(n.text(row, FieldEmail)))
	rec.Name = strings.TrimSpace(n.text(row, FieldName))

	if year := strings.TrimSpace(n.text(row, FieldYear)); year != "" {
		if coerced, ok := coerceYear(year); ok {
			rec.Year = &coerced
		} else {
			rec.YearRaw = year
		}
	}

	if phone := strings.TrimSpace(n.text(row, FieldPhone)); phone != "" {
		rec.Phone = &phone
	}
	if dept := strings.TrimSpace(n.text(row, FieldDepartment)); dept != "" {
		rec.Department = &dept
	}

	return rec
}

func (n *Normalizer) text(row domain.RawRow, field string) string {
	cell, ok := row.Get(n.mapping[field])
	if !ok {
		return ""
	}
	return cell.Text()
}

// coerceYear converts year text to an integer, accepting float forms that
// convert losslessly ("2.0" -> 2). "1.5" is not a year.
func coerceYear(raw string) (int, bool) {
	if i, err := strconv.Atoi(raw); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && math.Mod(f, 1) == 0 {
		return int(f), true
	}
	return 0, false
}
