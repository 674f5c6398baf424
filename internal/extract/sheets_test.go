package extract

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func noRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 1}
}

func sheetsServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func newTestSheets(t *testing.T, server *httptest.Server, retry RetryConfig) *SheetsExtractor {
	t.Helper()
	return NewSheetsExtractor(SheetsConfig{
		SpreadsheetID: "sheet-123",
		SheetName:     "Students",
		APIKey:        "test-key",
		BaseURL:       server.URL,
	}, retry, testLog())
}

func TestSheetsExtractParsesValues(t *testing.T) {
	server := sheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("missing api key, got %q", got)
		}
		if got := r.URL.Query().Get("valueRenderOption"); got != "UNFORMATTED_VALUE" {
			t.Errorf("unexpected render option %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"range": "Students!A1:E3",
			"values": [
				["Email", "Name", "Year", "GPA"],
				["alice@example.com", "Alice Smith", 2, 3.90],
				["bob@example.com", "Bob Jones", null, 3.2]
			]
		}`))
	})

	rows, err := newTestSheets(t, server, noRetry()).Extract(context.Background())
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	email, _ := rows[0].Get("email")
	if email.Text() != "alice@example.com" {
		t.Fatalf("unexpected email: %q", email.Text())
	}
	gpa, _ := rows[0].Get("gpa")
	if gpa.Text() != "3.90" {
		t.Fatalf("number cell lost its text: %q", gpa.Text())
	}
	year, _ := rows[1].Get("year")
	if !year.IsBlank() {
		t.Fatalf("null cell should be blank, got %q", year.Text())
	}
}

func TestSheetsExtractEmptySheet(t *testing.T) {
	server := sheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"range": "Students!A1:E1"}`))
	})

	rows, err := newTestSheets(t, server, noRetry()).Extract(context.Background())
	if err != nil {
		t.Fatalf("empty sheet must not be an error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected zero rows, got %d", len(rows))
	}
}

func TestSheetsExtractAuthErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := sheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	retry := RetryConfig{MaxAttempts: 3, BaseBackoff: time.Millisecond}
	_, err := newTestSheets(t, server, retry).Extract(context.Background())
	if !errors.Is(err, ErrAuthInvalid) {
		t.Fatalf("expected ErrAuthInvalid, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("auth failure retried %d times", calls.Load())
	}
}

func TestSheetsExtractNotFound(t *testing.T) {
	server := sheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := newTestSheets(t, server, noRetry()).Extract(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSheetsExtractRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := sheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{
			"values": [["Email"], ["alice@example.com"]]
		}`))
	})

	retry := RetryConfig{MaxAttempts: 3, BaseBackoff: time.Millisecond, MaxBackoff: 10 * time.Millisecond}
	rows, err := newTestSheets(t, server, retry).Extract(context.Background())
	if err != nil {
		t.Fatalf("extract failed after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
}

func TestSheetsExtractExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := sheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	retry := RetryConfig{MaxAttempts: 3, BaseBackoff: time.Millisecond}
	_, err := newTestSheets(t, server, retry).Extract(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestSheetsExtractBooleanCellsBecomeText(t *testing.T) {
	server := sheetsServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"values": [["Email", "Active"], ["alice@example.com", true]]
		}`))
	})

	rows, err := newTestSheets(t, server, noRetry()).Extract(context.Background())
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	cell, _ := rows[0].Get("active")
	if cell.Text() != "true" {
		t.Fatalf("boolean cell text = %q, want true", cell.Text())
	}
}
