package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Amanyadav207/sheetguard/internal/db"
	"github.com/Amanyadav207/sheetguard/internal/domain"
)

type studentRepository struct {
	conn *db.Connection
}

// NewStudentRepository wires a repository that writes each batch in its own
// transaction.
func NewStudentRepository(conn *db.Connection) StudentRepository {
	return &studentRepository{conn: conn}
}

func (r *studentRepository) InsertBatch(ctx context.Context, records []domain.ValidatedRecord, departmentIDs map[string]int64) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	sql, args := buildStudentInsert(records, departmentIDs)

	var inserted int64
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("failed to insert student batch: %w", err)
		}
		inserted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// buildStudentInsert renders a multi-row insert with skip-on-conflict
// semantics. The affected-row count of the statement is the number of rows
// actually inserted, which is how skipped pre-existing emails are accounted.
func buildStudentInsert(records []domain.ValidatedRecord, departmentIDs map[string]int64) (string, []any) {
	const columns = 5
	placeholders := make([]string, len(records))
	args := make([]any, 0, len(records)*columns)

	for i, rec := range records {
		base := i * columns
		placeholders[i] = fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5,
		)

		var deptID *int64
		if rec.Department != nil {
			if id, ok := departmentIDs[*rec.Department]; ok {
				deptID = &id
			}
		}

		args = append(args, rec.Email, rec.Name, deptID, rec.Year, rec.Phone)
	}

	sql := fmt.Sprintf(
		`INSERT INTO students (email, name, department_id, year, phone) VALUES %s ON CONFLICT (email) DO NOTHING`,
		strings.Join(placeholders, ", "),
	)
	return sql, args
}
