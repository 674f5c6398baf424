package extract

import (
	"fmt"
	"strings"

	"github.com/Amanyadav207/sheetguard/internal/domain"
)

// tableToRows converts a rectangular cell table into raw rows. The first
// non-empty row is the header; fully empty rows are dropped. Headers are
// sanitized (trimmed, lower-cased, separators collapsed to underscores) so
// downstream column mapping is insensitive to source formatting. Cells
// beyond the header width are ignored; missing trailing cells read blank.
func tableToRows(table [][]domain.Cell) []domain.RawRow {
	var headers []string
	var rows []domain.RawRow

	for _, cells := range table {
		if rowEmpty(cells) {
			continue
		}
		if headers == nil {
			headers = sanitizeHeaders(cells)
			continue
		}

		row := domain.NewRawRow()
		for i, header := range headers {
			if i < len(cells) {
				row.Set(header, cells[i])
			} else {
				row.Set(header, domain.BlankCell())
			}
		}
		rows = append(rows, row)
	}

	return rows
}

func rowEmpty(cells []domain.Cell) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell.Text()) != "" {
			return false
		}
	}
	return true
}

func sanitizeHeaders(cells []domain.Cell) []string {
	headers := make([]string, len(cells))
	seen := make(map[string]int)

	for idx, cell := range cells {
		name := strings.ToLower(strings.TrimSpace(cell.Text()))
		name = strings.ReplaceAll(name, " ", "_")
		name = strings.ReplaceAll(name, ".", "_")
		name = strings.ReplaceAll(name, "-", "_")
		name = strings.Trim(name, "_")
		if name == "" {
			name = fmt.Sprintf("column_%d", idx+1)
		}

		base := name
		count := seen[base]
		if count > 0 {
			name = fmt.Sprintf("%s_%d", base, count+1)
		}
		seen[base] = count + 1

		headers[idx] = name
	}

	return headers
}
