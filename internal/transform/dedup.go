package transform

import "strings"

// Deduplicate collapses a batch by case-folded email, keeping the first
// occurrence of each and preserving order. Rows without an email pass
// through untouched; whether they are loadable is the validator's call.
// The returned count is the number of rows dropped.
func Deduplicate(rows []Row) ([]Row, int) {
	seen := make(map[string]struct{}, len(rows))
	out := rows[:0:0]
	dropped := 0

	for _, row := range rows {
		email := strings.ToLower(row.Record.Email)
		if email == "" {
			out = append(out, row)
			continue
		}
		if _, dup := seen[email]; dup {
			dropped++
			continue
		}
		seen[email] = struct{}{}
		out = append(out, row)
	}

	return out, dropped
}
