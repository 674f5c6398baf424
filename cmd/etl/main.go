package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/Amanyadav207/sheetguard/internal/config"
	"github.com/Amanyadav207/sheetguard/internal/db"
	"github.com/Amanyadav207/sheetguard/internal/domain"
	"github.com/Amanyadav207/sheetguard/internal/etl"
	"github.com/Amanyadav207/sheetguard/internal/extract"
	"github.com/Amanyadav207/sheetguard/internal/repository"
	"github.com/Amanyadav207/sheetguard/internal/transform"

	applogger "github.com/Amanyadav207/sheetguard/internal/logger"
)

func main() {
	var (
		configPath     = flag.String("config", ".", "directory containing config.yaml")
		source         = flag.String("source", "sheets", "data source: sheets or file")
		filePath       = flag.String("file", "", "path to a .csv or .xlsx file (source=file)")
		migrationsPath = flag.String("migrations", "./migrations", "directory containing migration files")
		report         = flag.String("report", "", "print a report instead of running: latest, daily, errors, health")
		reportDays     = flag.Int("days", 7, "trailing window for the daily report")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	log := applogger.New(applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	// A second signal falls through to the default handler and kills the
	// process outright.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log, *source, *filePath, *migrationsPath, *report, *reportDays); err != nil {
		log.WithError(err).Error("pipeline failed")
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	cfg config.Config,
	log *logrus.Entry,
	source, filePath, migrationsPath, report string,
	reportDays int,
) error {
	dbConfig := db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConns,
	}

	if err := db.RunMigrations(dbConfig, migrationsPath); err != nil {
		return err
	}

	conn, err := db.NewConnection(ctx, dbConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	if report != "" {
		reporter := etl.NewReporter(repository.NewReportRepository(conn.Pool))
		return printReport(ctx, reporter, report, reportDays)
	}

	extractor, err := buildExtractor(cfg, log, source, filePath)
	if err != nil {
		return err
	}

	service := etl.NewService(
		extractor,
		transform.NewTransformer(cfg.ETL.ColumnMapping, log),
		repository.NewDepartmentRepository(conn.Pool),
		repository.NewStudentRepository(conn),
		repository.NewRunRepository(conn.Pool),
		repository.NewInvalidRowRepository(conn.Pool),
		cfg.ETL.BatchSize,
		log,
	)

	result, err := service.Run(ctx)
	if err != nil {
		return err
	}
	if result.Status == domain.RunStatusFailed {
		return fmt.Errorf("run %s finished with status %s", result.ID, result.Status)
	}
	if result.FailedRows > 0 {
		return fmt.Errorf("run %s finished with %d rows failing to load", result.ID, result.FailedRows)
	}
	return nil
}

func buildExtractor(cfg config.Config, log *logrus.Entry, source, filePath string) (extract.Extractor, error) {
	switch source {
	case "sheets":
		if cfg.Sheets.SpreadsheetID == "" {
			return nil, fmt.Errorf("sheets source requires sheets.spreadsheet_id")
		}
		retry := extract.DefaultRetryConfig()
		if cfg.ETL.MaxRetries > 0 {
			retry.MaxAttempts = cfg.ETL.MaxRetries
		}
		return extract.NewSheetsExtractor(extract.SheetsConfig{
			SpreadsheetID: cfg.Sheets.SpreadsheetID,
			SheetName:     cfg.Sheets.SheetName,
			ReadRange:     cfg.Sheets.ReadRange,
			APIKey:        cfg.Sheets.APIKey,
		}, retry, log), nil
	case "file":
		if filePath == "" {
			return nil, fmt.Errorf("file source requires -file")
		}
		return extract.NewFileExtractor(filePath, log), nil
	default:
		return nil, fmt.Errorf("unknown source %q, expected sheets or file", source)
	}
}

func printReport(ctx context.Context, reporter *etl.Reporter, report string, days int) error {
	var payload any
	var err error

	switch report {
	case "latest":
		payload, err = reporter.LatestRun(ctx)
	case "daily":
		payload, err = reporter.DailyMetrics(ctx, days)
	case "errors":
		payload, err = reporter.ErrorBreakdown(ctx, 10)
	case "health":
		payload, err = reporter.HealthStatus(ctx)
	default:
		return fmt.Errorf("unknown report %q, expected latest, daily, errors, or health", report)
	}
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
