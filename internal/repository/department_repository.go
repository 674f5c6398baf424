package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository wires a repository backed by pgxpool.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) Ensure(ctx context.Context, names []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(names))
	if len(names) == 0 {
		return ids, nil
	}

	insertSQL, args := buildDepartmentInsert(names)
	if _, err := r.pool.Exec(ctx, insertSQL, args...); err != nil {
		return nil, fmt.Errorf("failed to ensure departments: %w", err)
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, name FROM departments WHERE name = ANY($1)`,
		names,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve department ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		ids[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate departments: %w", err)
	}

	return ids, nil
}

// buildDepartmentInsert renders a multi-row conflict-safe insert so
// concurrent runs never race creating the same department.
func buildDepartmentInsert(names []string) (string, []any) {
	placeholders := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		placeholders[i] = fmt.Sprintf("($%d)", i+1)
		args[i] = name
	}
	sql := fmt.Sprintf(
		`INSERT INTO departments (name) VALUES %s ON CONFLICT (name) DO NOTHING`,
		strings.Join(placeholders, ", "),
	)
	return sql, args
}
