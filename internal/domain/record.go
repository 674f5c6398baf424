package domain

// CanonicalRecord is the normalized, field-named representation of one input
// row prior to validation. Normalization never fails: a year value that could
// not be coerced is carried in YearRaw so the validator can report it.
type CanonicalRecord struct {
	Email      string
	Name       string
	Year       *int
	YearRaw    string
	Phone      *string
	Department *string
}

// HasYear reports whether a year value (coerced or not) was present.
func (r CanonicalRecord) HasYear() bool {
	return r.Year != nil || r.YearRaw != ""
}

// ValidatedRecord is a CanonicalRecord known to satisfy every field
// constraint. It is produced only by batch validation and is the sole input
// type the loader accepts.
type ValidatedRecord struct {
	CanonicalRecord
}

// RejectedRecord pairs a failed row with its original payload so it can be
// quarantined without information loss.
type RejectedRecord struct {
	Raw       RawRow
	RowNumber int
	Reason    string
}
