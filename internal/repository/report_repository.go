package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Amanyadav207/sheetguard/internal/domain"
)

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository wires the read-view repository backed by pgxpool.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) LatestRun(ctx context.Context) (*domain.EtlRun, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, run_timestamp, total_rows, valid_rows, invalid_rows,
		        duplicate_emails, inserted_rows, skipped_rows, failed_rows,
		        dead_letter_failures, duration_seconds, status, error_message
		 FROM etl_runs
		 ORDER BY run_timestamp DESC
		 LIMIT 1`,
	)

	var (
		run          domain.EtlRun
		status       string
		errorMessage pgtype.Text
	)
	err := row.Scan(
		&run.ID,
		&run.RunTimestamp,
		&run.TotalRows,
		&run.ValidRows,
		&run.InvalidRows,
		&run.DuplicateEmails,
		&run.InsertedRows,
		&run.SkippedRows,
		&run.FailedRows,
		&run.DeadLetterFailures,
		&run.DurationSeconds,
		&status,
		&errorMessage,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest run: %w", err)
	}

	run.Status = domain.RunStatus(status)
	if errorMessage.Valid {
		run.ErrorMessage = &errorMessage.String
	}
	return &run, nil
}

func (r *reportRepository) DailyMetrics(ctx context.Context, days int) ([]domain.DailyMetrics, error) {
	if days <= 0 {
		days = 30
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT DATE(run_timestamp)::text AS run_date,
		        COUNT(*),
		        COALESCE(SUM(total_rows), 0),
		        COALESCE(SUM(valid_rows), 0),
		        COALESCE(SUM(invalid_rows), 0),
		        COALESCE(SUM(duplicate_emails), 0),
		        COALESCE(SUM(inserted_rows), 0),
		        COALESCE(SUM(skipped_rows), 0),
		        ROUND(AVG(duration_seconds)::numeric, 2),
		        SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END)
		 FROM etl_runs
		 WHERE run_timestamp > NOW() - make_interval(days => $1)
		 GROUP BY DATE(run_timestamp)
		 ORDER BY run_date DESC`,
		days,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily metrics: %w", err)
	}
	defer rows.Close()

	metrics := []domain.DailyMetrics{}
	for rows.Next() {
		var m domain.DailyMetrics
		if err := rows.Scan(
			&m.RunDate,
			&m.RunsCount,
			&m.TotalRows,
			&m.ValidRows,
			&m.InvalidRows,
			&m.Duplicates,
			&m.Inserted,
			&m.Skipped,
			&m.AvgDuration,
			&m.SuccessfulRuns,
			&m.FailedRuns,
		); err != nil {
			return nil, fmt.Errorf("failed to scan daily metrics: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily metrics: %w", err)
	}

	return metrics, nil
}

func (r *reportRepository) ErrorBreakdown(ctx context.Context, limit int) ([]domain.ErrorFrequency, error) {
	if limit <= 0 {
		limit = 15
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT error_reason,
		        COUNT(*) AS frequency,
		        COUNT(DISTINCT etl_run_id),
		        ROUND(100.0 * COUNT(*) / (SELECT COUNT(*) FROM invalid_rows), 2),
		        MAX(created_at)
		 FROM invalid_rows
		 GROUP BY error_reason
		 ORDER BY frequency DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch error breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := []domain.ErrorFrequency{}
	for rows.Next() {
		var f domain.ErrorFrequency
		if err := rows.Scan(
			&f.ErrorReason,
			&f.Frequency,
			&f.AffectedRuns,
			&f.PctOfTotal,
			&f.LastOccurrence,
		); err != nil {
			return nil, fmt.Errorf("failed to scan error breakdown: %w", err)
		}
		breakdown = append(breakdown, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate error breakdown: %w", err)
	}

	return breakdown, nil
}

func (r *reportRepository) HealthStatus(ctx context.Context) (domain.HealthStatus, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT (SELECT COUNT(*) FROM etl_runs),
		        (SELECT COUNT(*) FROM etl_runs WHERE status = 'success'),
		        (SELECT COALESCE(SUM(total_rows), 0) FROM etl_runs),
		        (SELECT COALESCE(SUM(valid_rows), 0) FROM etl_runs),
		        (SELECT COALESCE(SUM(invalid_rows), 0) FROM etl_runs),
		        (SELECT COUNT(*) FROM students),
		        (SELECT MAX(run_timestamp) FROM etl_runs)`,
	)

	var (
		health      domain.HealthStatus
		lastRunTime pgtype.Timestamptz
	)
	if err := row.Scan(
		&health.TotalRuns,
		&health.SuccessfulRuns,
		&health.TotalRowsProcessed,
		&health.TotalValidRows,
		&health.TotalInvalidRows,
		&health.CurrentStudents,
		&lastRunTime,
	); err != nil {
		return domain.HealthStatus{}, fmt.Errorf("failed to fetch health status: %w", err)
	}

	if lastRunTime.Valid {
		health.LastRunTime = &lastRunTime.Time
	}
	return health, nil
}
