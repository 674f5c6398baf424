package extract

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/Amanyadav207/sheetguard/internal/domain"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// FileExtractor reads a local .csv or .xlsx file, mainly for backfills and
// local development against exported sheets.
type FileExtractor struct {
	path string
	log  *logrus.Entry
}

// NewFileExtractor builds an extractor for the given file path.
func NewFileExtractor(path string, log *logrus.Entry) *FileExtractor {
	return &FileExtractor{
		path: path,
		log:  log.WithField("component", "file_extractor"),
	}
}

// Extract parses the file into raw rows. The format is chosen by extension.
func (e *FileExtractor) Extract(ctx context.Context) ([]domain.RawRow, error) {
	payload, err := os.ReadFile(e.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, e.path)
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	var table [][]domain.Cell
	switch ext := strings.ToLower(filepath.Ext(e.path)); ext {
	case ".csv":
		table, err = parseCSV(payload)
	case ".xlsx":
		table, err = parseExcel(payload)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	rows := tableToRows(table)
	e.log.WithFields(logrus.Fields{
		"file": e.path,
		"rows": len(rows),
	}).Info("extracted rows from file")
	return rows, nil
}

func parseCSV(payload []byte) ([][]domain.Cell, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	return stringTable(records), nil
}

func parseExcel(payload []byte) ([][]domain.Cell, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}

	return stringTable(records), nil
}

func stringTable(records [][]string) [][]domain.Cell {
	table := make([][]domain.Cell, len(records))
	for i, record := range records {
		cells := make([]domain.Cell, len(record))
		for j, value := range record {
			cells[j] = domain.StringCell(value)
		}
		table[i] = cells
	}
	return table
}
