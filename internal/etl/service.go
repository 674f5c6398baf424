// Package etl orchestrates the extract, transform, and load phases and owns
// the run-lifecycle audit record.
package etl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Amanyadav207/sheetguard/internal/domain"
	"github.com/Amanyadav207/sheetguard/internal/extract"
	"github.com/Amanyadav207/sheetguard/internal/repository"
	"github.com/Amanyadav207/sheetguard/internal/transform"
)

const defaultBatchSize = 100

// Service executes one pipeline run per invocation. Scheduling is a caller
// concern; concurrent runs coordinate only through store-level uniqueness.
type Service struct {
	extractor   extract.Extractor
	transformer *transform.Transformer
	departments repository.DepartmentRepository
	students    repository.StudentRepository
	runs        repository.RunRepository
	deadLetters repository.InvalidRowRepository
	batchSize   int
	log         *logrus.Entry
}

// NewService wires the pipeline. A non-positive batch size falls back to the
// default.
func NewService(
	extractor extract.Extractor,
	transformer *transform.Transformer,
	departments repository.DepartmentRepository,
	students repository.StudentRepository,
	runs repository.RunRepository,
	deadLetters repository.InvalidRowRepository,
	batchSize int,
	log *logrus.Entry,
) *Service {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Service{
		extractor:   extractor,
		transformer: transformer,
		departments: departments,
		students:    students,
		runs:        runs,
		deadLetters: deadLetters,
		batchSize:   batchSize,
		log:         log,
	}
}

// Run executes the full pipeline once and returns the finalized run record.
// The record is created up front (in_progress) so a crash mid-run still
// leaves an observable row, and finalized exactly once on every exit path.
func (s *Service) Run(ctx context.Context) (run domain.EtlRun, err error) {
	run = domain.NewEtlRun()
	start := time.Now()

	if createErr := s.runs.Create(ctx, run); createErr != nil {
		run.Status = domain.RunStatusFailed
		msg := createErr.Error()
		run.ErrorMessage = &msg
		return run, fmt.Errorf("failed to start etl run: %w", createErr)
	}
	s.log.WithField("run_id", run.ID).Info("etl run started")

	defer func() {
		if p := recover(); p != nil {
			msg := fmt.Sprintf("unexpected fault: %v", p)
			run.Status = domain.RunStatusFailed
			run.ErrorMessage = &msg
			err = errors.New(msg)
		}

		run.DurationSeconds = time.Since(start).Seconds()
		if !run.Status.Terminal() {
			run.Status = terminalStatus(run)
		}

		// A metrics-write failure must not flip an already committed
		// data load; it is logged and nothing more.
		if finalizeErr := s.runs.Finalize(ctx, run); finalizeErr != nil {
			s.log.WithError(finalizeErr).WithField("run_id", run.ID).
				Error("failed to finalize etl run record")
		}
		s.logSummary(run)
	}()

	if execErr := s.execute(ctx, &run); execErr != nil {
		run.Status = domain.RunStatusFailed
		msg := execErr.Error()
		run.ErrorMessage = &msg
		return run, execErr
	}

	return run, nil
}

// execute runs the phases. Only extraction failures abort the run; load and
// dead-letter degradation is absorbed into counters.
func (s *Service) execute(ctx context.Context, run *domain.EtlRun) error {
	raws, err := s.extractor.Extract(ctx)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	valid, rejected, stats := s.transformer.Transform(raws)
	run.TotalRows = stats.TotalRows
	run.ValidRows = stats.ValidRows
	run.InvalidRows = stats.InvalidRows
	run.DuplicateEmails = stats.DuplicateEmails

	// Quarantine rejects before the load phase touches the store, so a
	// mid-load outage cannot lose already-known rejects.
	if len(rejected) > 0 {
		written, dlErr := s.deadLetters.RecordBatch(ctx, run.ID, rejected)
		if dlErr != nil {
			s.log.WithError(dlErr).WithField("run_id", run.ID).
				Error("failed to quarantine invalid rows")
		}
		run.DeadLetterFailures = len(rejected) - written
	}

	if len(valid) > 0 {
		s.load(ctx, run, valid)
	}

	return nil
}

// load resolves departments once for the run, then inserts students in
// fixed-size batches, one transaction each. A failed batch is counted and
// skipped; subsequent batches still proceed.
func (s *Service) load(ctx context.Context, run *domain.EtlRun, records []domain.ValidatedRecord) {
	departmentIDs, err := s.departments.Ensure(ctx, departmentNames(records))
	if err != nil {
		s.log.WithError(err).WithField("run_id", run.ID).
			Error("failed to resolve departments, load phase aborted")
		run.FailedRows = len(records)
		return
	}

	for start := 0; start < len(records); start += s.batchSize {
		end := start + s.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		inserted, err := s.students.InsertBatch(ctx, batch, departmentIDs)
		if err != nil {
			run.FailedRows += len(batch)
			s.log.WithError(err).WithFields(logrus.Fields{
				"run_id": run.ID,
				"batch":  start / s.batchSize,
				"rows":   len(batch),
			}).Error("failed to load student batch")
			continue
		}

		run.InsertedRows += int(inserted)
		run.SkippedRows += len(batch) - int(inserted)
	}
}

// terminalStatus maps counters onto the terminal state: any invalid, failed,
// or unquarantined rows degrade the run to partial success.
func terminalStatus(run domain.EtlRun) domain.RunStatus {
	if run.InvalidRows > 0 || run.FailedRows > 0 || run.DeadLetterFailures > 0 {
		return domain.RunStatusPartialSuccess
	}
	return domain.RunStatusSuccess
}

func departmentNames(records []domain.ValidatedRecord) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, rec := range records {
		if rec.Department == nil {
			continue
		}
		if _, ok := seen[*rec.Department]; ok {
			continue
		}
		seen[*rec.Department] = struct{}{}
		names = append(names, *rec.Department)
	}
	return names
}

func (s *Service) logSummary(run domain.EtlRun) {
	s.log.WithFields(logrus.Fields{
		"run_id":               run.ID,
		"status":               string(run.Status),
		"total_rows":           run.TotalRows,
		"valid_rows":           run.ValidRows,
		"invalid_rows":         run.InvalidRows,
		"duplicate_emails":     run.DuplicateEmails,
		"inserted_rows":        run.InsertedRows,
		"skipped_rows":         run.SkippedRows,
		"failed_rows":          run.FailedRows,
		"dead_letter_failures": run.DeadLetterFailures,
		"duration_seconds":     run.DurationSeconds,
		"validity_rate":        run.ValidityRate(),
	}).Info("etl run finished")
}
