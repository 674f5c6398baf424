package repository

import (
	"strings"
	"testing"

	"github.com/Amanyadav207/sheetguard/internal/domain"
)

func strPtr(v string) *string { return &v }

func TestBuildStudentInsert(t *testing.T) {
	year := 2
	records := []domain.ValidatedRecord{
		{CanonicalRecord: domain.CanonicalRecord{
			Email:      "alice@example.com",
			Name:       "Alice Smith",
			Year:       &year,
			Department: strPtr("Physics"),
		}},
		{CanonicalRecord: domain.CanonicalRecord{
			Email: "bob@example.com",
			Name:  "Bob Jones",
		}},
	}
	departmentIDs := map[string]int64{"Physics": 7}

	sql, args := buildStudentInsert(records, departmentIDs)

	if !strings.Contains(sql, "($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10)") {
		t.Fatalf("placeholders wrong: %s", sql)
	}
	if !strings.Contains(sql, "ON CONFLICT (email) DO NOTHING") {
		t.Fatalf("conflict clause missing: %s", sql)
	}
	if len(args) != 10 {
		t.Fatalf("expected 10 args, got %d", len(args))
	}
	if args[0] != "alice@example.com" || args[5] != "bob@example.com" {
		t.Fatalf("emails misplaced: %v", args)
	}

	deptID, ok := args[2].(*int64)
	if !ok || deptID == nil || *deptID != 7 {
		t.Fatalf("department id not resolved: %v", args[2])
	}
	if args[7] != (*int64)(nil) {
		t.Fatalf("missing department should bind nil, got %v", args[7])
	}
}

func TestBuildStudentInsertUnknownDepartmentBindsNil(t *testing.T) {
	records := []domain.ValidatedRecord{
		{CanonicalRecord: domain.CanonicalRecord{
			Email:      "carol@example.com",
			Name:       "Carol Chen",
			Department: strPtr("Alchemy"),
		}},
	}

	_, args := buildStudentInsert(records, map[string]int64{})
	if args[2] != (*int64)(nil) {
		t.Fatalf("unresolved department should bind nil, got %v", args[2])
	}
}

func TestBuildDepartmentInsert(t *testing.T) {
	sql, args := buildDepartmentInsert([]string{"Physics", "History"})

	if !strings.Contains(sql, "($1), ($2)") {
		t.Fatalf("placeholders wrong: %s", sql)
	}
	if !strings.Contains(sql, "ON CONFLICT (name) DO NOTHING") {
		t.Fatalf("conflict clause missing: %s", sql)
	}
	if len(args) != 2 || args[0] != "Physics" || args[1] != "History" {
		t.Fatalf("unexpected args: %v", args)
	}
}
