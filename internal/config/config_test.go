package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SHEETGUARD_DATABASE_USER", "etl")
	t.Setenv("SHEETGUARD_DATABASE_PASSWORD", "secret")
	t.Setenv("SHEETGUARD_SHEETS_SPREADSHEET_ID", "sheet-123")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Database.User != "etl" || cfg.Database.Password != "secret" {
		t.Fatalf("credentials not read from environment: %+v", cfg.Database)
	}
	if cfg.Sheets.SpreadsheetID != "sheet-123" {
		t.Fatalf("spreadsheet id not read: %q", cfg.Sheets.SpreadsheetID)
	}

	// Defaults apply where nothing is set.
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Fatalf("database defaults wrong: %+v", cfg.Database)
	}
	if cfg.ETL.BatchSize != 100 || cfg.ETL.MaxRetries != 3 {
		t.Fatalf("etl defaults wrong: %+v", cfg.ETL)
	}
	if cfg.Sheets.SheetName != "Students" {
		t.Fatalf("sheet name default wrong: %q", cfg.Sheets.SheetName)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Fatalf("log defaults wrong: %+v", cfg.Log)
	}
}

func TestLoadFromConfigFile(t *testing.T) {
	t.Setenv("SHEETGUARD_DATABASE_USER", "etl")
	t.Setenv("SHEETGUARD_DATABASE_PASSWORD", "secret")

	dir := t.TempDir()
	yaml := `
database:
  host: db.internal
  port: 5433
etl:
  batch_size: 250
  column_mapping:
    email: email_address
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 5433 {
		t.Fatalf("config file values not applied: %+v", cfg.Database)
	}
	if cfg.ETL.BatchSize != 250 {
		t.Fatalf("batch size not applied: %d", cfg.ETL.BatchSize)
	}
	if cfg.ETL.ColumnMapping["email"] != "email_address" {
		t.Fatalf("column mapping not applied: %+v", cfg.ETL.ColumnMapping)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("SHEETGUARD_DATABASE_USER", "")
	t.Setenv("SHEETGUARD_DATABASE_PASSWORD", "")

	if _, err := Load(t.TempDir()); err == nil {
		t.Fatalf("expected error for missing credentials")
	}
}
