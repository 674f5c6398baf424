package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the run lifecycle state. A run starts in_progress and is
// finalized exactly once into one of the terminal states.
type RunStatus string

const (
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusSuccess        RunStatus = "success"
	RunStatusPartialSuccess RunStatus = "partial_success"
	RunStatusFailed         RunStatus = "failed"
)

// Terminal reports whether the status is an end state.
func (s RunStatus) Terminal() bool {
	return s == RunStatusSuccess || s == RunStatusPartialSuccess || s == RunStatusFailed
}

// EtlRun is the aggregate audit record for one pipeline execution. Counters
// reconcile exactly: TotalRows = ValidRows + InvalidRows and
// InsertedRows + SkippedRows + FailedRows = ValidRows.
type EtlRun struct {
	ID                 uuid.UUID `json:"id"`
	RunTimestamp       time.Time `json:"run_timestamp"`
	TotalRows          int       `json:"total_rows"`
	ValidRows          int       `json:"valid_rows"`
	InvalidRows        int       `json:"invalid_rows"`
	DuplicateEmails    int       `json:"duplicate_emails"`
	InsertedRows       int       `json:"inserted_rows"`
	SkippedRows        int       `json:"skipped_rows"`
	FailedRows         int       `json:"failed_rows"`
	DeadLetterFailures int       `json:"dead_letter_failures"`
	DurationSeconds    float64   `json:"duration_seconds"`
	Status             RunStatus `json:"status"`
	ErrorMessage       *string   `json:"error_message,omitempty"`
}

// NewEtlRun creates a run record in its initial state, all counters zero.
func NewEtlRun() EtlRun {
	return EtlRun{
		ID:           uuid.New(),
		RunTimestamp: time.Now().UTC(),
		Status:       RunStatusInProgress,
	}
}

// ValidityRate is the share of rows that passed validation, in percent.
func (r EtlRun) ValidityRate() float64 {
	if r.TotalRows == 0 {
		return 0
	}
	return float64(r.ValidRows) / float64(r.TotalRows) * 100
}

// ErrorRate is the share of rows rejected by validation, in percent.
func (r EtlRun) ErrorRate() float64 {
	if r.TotalRows == 0 {
		return 0
	}
	return float64(r.InvalidRows) / float64(r.TotalRows) * 100
}

// DuplicateRate is the share of rows dropped as in-batch duplicates.
func (r EtlRun) DuplicateRate() float64 {
	if r.TotalRows == 0 {
		return 0
	}
	return float64(r.DuplicateEmails) / float64(r.TotalRows) * 100
}

// SkipRate is the share of loaded rows skipped as pre-existing.
func (r EtlRun) SkipRate() float64 {
	processed := r.InsertedRows + r.SkippedRows
	if processed == 0 {
		return 0
	}
	return float64(r.SkippedRows) / float64(processed) * 100
}

// Throughput is rows processed per second.
func (r EtlRun) Throughput() float64 {
	if r.DurationSeconds == 0 {
		return 0
	}
	return float64(r.TotalRows) / r.DurationSeconds
}

// InvalidRowRecord is the persisted form of a RejectedRecord, foreign-keyed
// to its run.
type InvalidRowRecord struct {
	ID          int64     `json:"id"`
	EtlRunID    uuid.UUID `json:"etl_run_id"`
	RawData     RawRow    `json:"raw_data"`
	ErrorReason string    `json:"error_reason"`
	RowNumber   int       `json:"row_number"`
	CreatedAt   time.Time `json:"created_at"`
}
