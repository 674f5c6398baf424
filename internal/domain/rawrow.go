package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CellKind discriminates the scalar variants a spreadsheet cell can hold.
type CellKind int

const (
	CellBlank CellKind = iota
	CellString
	CellNumber
)

// Cell is a tagged scalar value as retrieved from the source. Numbers keep
// their exact textual form via json.Number so dead-letter payloads round
// trip without precision loss.
type Cell struct {
	kind CellKind
	str  string
	num  json.Number
}

// BlankCell returns the blank/absent cell value.
func BlankCell() Cell {
	return Cell{kind: CellBlank}
}

// StringCell wraps a string value. Empty strings are blank cells.
func StringCell(s string) Cell {
	if s == "" {
		return BlankCell()
	}
	return Cell{kind: CellString, str: s}
}

// NumberCell wraps a numeric value without reparsing its text.
func NumberCell(n json.Number) Cell {
	return Cell{kind: CellNumber, num: n}
}

// Kind returns the cell's variant tag.
func (c Cell) Kind() CellKind { return c.kind }

// IsBlank reports whether the cell carries no value.
func (c Cell) IsBlank() bool { return c.kind == CellBlank }

// Text returns the cell's value as text; blank cells yield "".
func (c Cell) Text() string {
	switch c.kind {
	case CellString:
		return c.str
	case CellNumber:
		return c.num.String()
	default:
		return ""
	}
}

// MarshalJSON encodes blank as null, strings as JSON strings, and numbers
// as raw JSON numbers.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CellString:
		return json.Marshal(c.str)
	case CellNumber:
		return []byte(c.num.String()), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes the scalar variants produced by MarshalJSON.
func (c *Cell) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty cell payload")
	}
	switch trimmed[0] {
	case 'n':
		*c = BlankCell()
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("failed to decode string cell: %w", err)
		}
		*c = StringCell(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("unsupported cell value %s", string(trimmed))
		}
		*c = NumberCell(n)
		return nil
	}
}

// RawRow is an ordered mapping of column name to scalar cell, exactly as
// retrieved from the source. It is the unit of dead-letter preservation and
// is never mutated after extraction.
type RawRow struct {
	cols  []string
	cells map[string]Cell
}

// NewRawRow returns an empty raw row.
func NewRawRow() RawRow {
	return RawRow{cells: make(map[string]Cell)}
}

// Set records a cell under the given column, preserving insertion order.
// Setting an existing column overwrites its value in place.
func (r *RawRow) Set(column string, cell Cell) {
	if r.cells == nil {
		r.cells = make(map[string]Cell)
	}
	if _, exists := r.cells[column]; !exists {
		r.cols = append(r.cols, column)
	}
	r.cells[column] = cell
}

// Get returns the cell stored under column.
func (r RawRow) Get(column string) (Cell, bool) {
	cell, ok := r.cells[column]
	return cell, ok
}

// Columns returns the column names in insertion order.
func (r RawRow) Columns() []string {
	out := make([]string, len(r.cols))
	copy(out, r.cols)
	return out
}

// Len returns the number of columns.
func (r RawRow) Len() int { return len(r.cols) }

// Equal reports structural identity: same columns in the same order with
// identical cell values.
func (r RawRow) Equal(other RawRow) bool {
	if len(r.cols) != len(other.cols) {
		return false
	}
	for i, col := range r.cols {
		if other.cols[i] != col {
			return false
		}
		if r.cells[col] != other.cells[col] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the row as a JSON object with keys in column order.
func (r RawRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, fmt.Errorf("failed to encode column name: %w", err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := r.cells[col].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode cell %s: %w", col, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key encounter order.
func (r *RawRow) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to decode raw row: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("raw row payload is not a JSON object")
	}

	row := NewRawRow()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to decode raw row key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("raw row key is not a string")
		}

		valTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to decode raw row value: %w", err)
		}
		switch v := valTok.(type) {
		case nil:
			row.Set(key, BlankCell())
		case string:
			row.Set(key, StringCell(v))
		case json.Number:
			row.Set(key, NumberCell(v))
		default:
			return fmt.Errorf("unsupported cell value for column %s: %v", key, valTok)
		}
	}

	// consume closing brace
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to decode raw row: %w", err)
	}

	*r = row
	return nil
}
