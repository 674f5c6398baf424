package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Amanyadav207/sheetguard/internal/domain"
)

type invalidRowRepository struct {
	pool *pgxpool.Pool
}

// NewInvalidRowRepository wires the dead-letter sink backed by pgxpool.
func NewInvalidRowRepository(pool *pgxpool.Pool) InvalidRowRepository {
	return &invalidRowRepository{pool: pool}
}

func (r *invalidRowRepository) RecordBatch(ctx context.Context, runID uuid.UUID, rejected []domain.RejectedRecord) (int, error) {
	if len(rejected) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	skipped := 0
	for _, rec := range rejected {
		rawData, err := json.Marshal(rec.Raw)
		if err != nil {
			// Unserializable payloads are dropped row by row, not batch
			// by batch, so one bad row cannot sink its neighbors.
			skipped++
			continue
		}
		batch.Queue(
			`INSERT INTO invalid_rows (etl_run_id, raw_data, error_reason, row_number)
			 VALUES ($1, $2, $3, $4)`,
			runID,
			rawData,
			rec.Reason,
			rec.RowNumber,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	var firstErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to record invalid row: %w", err)
			}
			continue
		}
		written++
	}

	if firstErr != nil {
		return written, firstErr
	}
	if skipped > 0 {
		return written, fmt.Errorf("failed to serialize %d invalid rows", skipped)
	}
	return written, nil
}

func (r *invalidRowRepository) ListByRun(ctx context.Context, runID uuid.UUID, limit, offset int) ([]domain.InvalidRowRecord, error) {
	if limit <= 0 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, etl_run_id, raw_data, error_reason, row_number, created_at
		 FROM invalid_rows
		 WHERE etl_run_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		runID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invalid rows: %w", err)
	}
	defer rows.Close()

	records := []domain.InvalidRowRecord{}
	for rows.Next() {
		var (
			rec       domain.InvalidRowRecord
			rawData   []byte
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.EtlRunID,
			&rawData,
			&rec.ErrorReason,
			&rec.RowNumber,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invalid row: %w", err)
		}
		if err := json.Unmarshal(rawData, &rec.RawData); err != nil {
			return nil, fmt.Errorf("failed to decode raw data for invalid row %d: %w", rec.ID, err)
		}
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invalid rows: %w", err)
	}

	return records, nil
}
