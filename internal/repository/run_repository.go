package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Amanyadav207/sheetguard/internal/domain"
)

type runRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository wires a repository backed by pgxpool.
func NewRunRepository(pool *pgxpool.Pool) RunRepository {
	return &runRepository{pool: pool}
}

func (r *runRepository) Create(ctx context.Context, run domain.EtlRun) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO etl_runs (id, run_timestamp, status) VALUES ($1, $2, $3)`,
		run.ID,
		run.RunTimestamp,
		string(run.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to create etl run record: %w", err)
	}
	return nil
}

func (r *runRepository) Finalize(ctx context.Context, run domain.EtlRun) error {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE etl_runs
		 SET status = $1,
		     total_rows = $2,
		     valid_rows = $3,
		     invalid_rows = $4,
		     duplicate_emails = $5,
		     inserted_rows = $6,
		     skipped_rows = $7,
		     failed_rows = $8,
		     dead_letter_failures = $9,
		     duration_seconds = $10,
		     error_message = $11
		 WHERE id = $12`,
		string(run.Status),
		run.TotalRows,
		run.ValidRows,
		run.InvalidRows,
		run.DuplicateEmails,
		run.InsertedRows,
		run.SkippedRows,
		run.FailedRows,
		run.DeadLetterFailures,
		run.DurationSeconds,
		run.ErrorMessage,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize etl run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("etl run %s not found", run.ID)
	}
	return nil
}
