package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/Amanyadav207/sheetguard/internal/domain"
)

const defaultSheetsBaseURL = "https://sheets.googleapis.com"

// SheetsConfig identifies the spreadsheet range to read.
type SheetsConfig struct {
	SpreadsheetID string
	SheetName     string
	ReadRange     string // optional A1 notation, e.g. "A1:E1000"
	APIKey        string
	BaseURL       string // overridable for tests
}

// SheetsExtractor reads a Google Sheet through the values API.
type SheetsExtractor struct {
	client *resty.Client
	cfg    SheetsConfig
	retry  RetryConfig
	log    *logrus.Entry
}

// NewSheetsExtractor builds an extractor with retry on transient failures.
func NewSheetsExtractor(cfg SheetsConfig, retry RetryConfig, log *logrus.Entry) *SheetsExtractor {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultSheetsBaseURL
	}
	client := resty.New().SetBaseURL(baseURL)
	return &SheetsExtractor{
		client: client,
		cfg:    cfg,
		retry:  retry,
		log:    log.WithField("component", "sheets_extractor"),
	}
}

type valuesResponse struct {
	Range  string              `json:"range"`
	Values [][]json.RawMessage `json:"values"`
}

// Extract fetches the configured range and converts it to raw rows. An
// empty sheet is a zero-row batch, not an error.
func (e *SheetsExtractor) Extract(ctx context.Context) ([]domain.RawRow, error) {
	var rows []domain.RawRow

	err := withRetry(ctx, e.log, e.retry, func() error {
		fetched, err := e.fetch(ctx)
		if err != nil {
			return err
		}
		rows = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.WithField("rows", len(rows)).Info("extracted rows from sheet")
	return rows, nil
}

func (e *SheetsExtractor) fetch(ctx context.Context) ([]domain.RawRow, error) {
	rangeRef := e.cfg.SheetName
	if e.cfg.ReadRange != "" {
		rangeRef = fmt.Sprintf("%s!%s", e.cfg.SheetName, e.cfg.ReadRange)
	}

	resp, err := e.client.R().
		SetContext(ctx).
		SetQueryParam("key", e.cfg.APIKey).
		SetQueryParam("valueRenderOption", "UNFORMATTED_VALUE").
		Get(fmt.Sprintf(
			"/v4/spreadsheets/%s/values/%s",
			url.PathEscape(e.cfg.SpreadsheetID),
			url.PathEscape(rangeRef),
		))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	switch {
	case resp.StatusCode() == 200:
		// fallthrough to decoding
	case resp.StatusCode() == 401 || resp.StatusCode() == 403:
		return nil, fmt.Errorf("%w: sheets api returned %d", ErrAuthInvalid, resp.StatusCode())
	case resp.StatusCode() == 404:
		return nil, fmt.Errorf("%w: spreadsheet %s range %s", ErrNotFound, e.cfg.SpreadsheetID, rangeRef)
	default:
		return nil, fmt.Errorf("%w: sheets api returned %d", ErrSourceUnavailable, resp.StatusCode())
	}

	var payload valuesResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode sheets response: %w", err)
	}
	if len(payload.Values) == 0 {
		e.log.WithField("range", rangeRef).Warn("no data found in sheet")
		return nil, nil
	}

	table := make([][]domain.Cell, len(payload.Values))
	for i, row := range payload.Values {
		cells := make([]domain.Cell, len(row))
		for j, raw := range row {
			cell, err := decodeSheetCell(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to decode cell at row %d col %d: %w", i+1, j+1, err)
			}
			cells[j] = cell
		}
		table[i] = cells
	}

	return tableToRows(table), nil
}

// decodeSheetCell maps a sheets API scalar onto the cell variants. Booleans
// have no variant of their own and are carried as text.
func decodeSheetCell(raw json.RawMessage) (domain.Cell, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return domain.BlankCell(), nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return domain.Cell{}, err
		}
		return domain.StringCell(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return domain.Cell{}, err
		}
		return domain.StringCell(strconv.FormatBool(b)), nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return domain.Cell{}, err
		}
		return domain.NumberCell(n), nil
	}
}
