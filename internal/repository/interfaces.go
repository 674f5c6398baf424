// Package repository persists pipeline data in Postgres. Idempotency lives
// here: unique-key conflicts at the store are the sole deduplication
// authority across runs and across concurrent writers.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Amanyadav207/sheetguard/internal/domain"
)

// DepartmentRepository resolves department names to ids, creating missing
// ones on demand.
type DepartmentRepository interface {
	// Ensure upserts every name and returns the name -> id mapping. The
	// insert is conflict-safe at the store, never an in-process
	// check-then-act.
	Ensure(ctx context.Context, names []string) (map[string]int64, error)
}

// StudentRepository loads validated records.
type StudentRepository interface {
	// InsertBatch inserts one batch in a single transaction with
	// skip-on-duplicate-email semantics and returns the number of rows
	// actually inserted; the remainder already existed.
	InsertBatch(ctx context.Context, records []domain.ValidatedRecord, departmentIDs map[string]int64) (int64, error)
}

// RunRepository tracks the run lifecycle record.
type RunRepository interface {
	// Create persists the initial in_progress row so a crash mid-run
	// still leaves an observable record.
	Create(ctx context.Context, run domain.EtlRun) error
	// Finalize writes the terminal counters and status exactly once.
	Finalize(ctx context.Context, run domain.EtlRun) error
}

// InvalidRowRepository is the dead-letter sink for rejected rows.
type InvalidRowRepository interface {
	// RecordBatch persists rejected rows with their raw payloads and
	// returns how many were written; rows that could not be written are
	// the caller's to count.
	RecordBatch(ctx context.Context, runID uuid.UUID, rejected []domain.RejectedRecord) (int, error)
	// ListByRun returns the quarantined rows of one run, newest first.
	ListByRun(ctx context.Context, runID uuid.UUID, limit, offset int) ([]domain.InvalidRowRecord, error)
}

// ReportRepository serves the derived read views over etl_runs and
// invalid_rows. All methods are pure aggregations.
type ReportRepository interface {
	LatestRun(ctx context.Context) (*domain.EtlRun, error)
	DailyMetrics(ctx context.Context, days int) ([]domain.DailyMetrics, error)
	ErrorBreakdown(ctx context.Context, limit int) ([]domain.ErrorFrequency, error)
	HealthStatus(ctx context.Context) (domain.HealthStatus, error)
}
