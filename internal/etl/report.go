package etl

import (
	"context"
	"fmt"

	"github.com/Amanyadav207/sheetguard/internal/domain"
	"github.com/Amanyadav207/sheetguard/internal/repository"
)

// Reporter serves the read-side views over run history and the dead-letter
// table.
type Reporter struct {
	reports repository.ReportRepository
}

func NewReporter(reports repository.ReportRepository) *Reporter {
	return &Reporter{reports: reports}
}

// LatestRun returns the most recent run record, or nil when no run exists.
func (r *Reporter) LatestRun(ctx context.Context) (*domain.EtlRun, error) {
	return r.reports.LatestRun(ctx)
}

// DailyMetrics aggregates runs per calendar day over the trailing window.
func (r *Reporter) DailyMetrics(ctx context.Context, days int) ([]domain.DailyMetrics, error) {
	if days <= 0 {
		days = 7
	}
	return r.reports.DailyMetrics(ctx, days)
}

// ErrorBreakdown ranks rejection reasons by frequency.
func (r *Reporter) ErrorBreakdown(ctx context.Context, limit int) ([]domain.ErrorFrequency, error) {
	if limit <= 0 {
		limit = 10
	}
	return r.reports.ErrorBreakdown(ctx, limit)
}

// HealthStatus summarizes lifetime pipeline activity.
func (r *Reporter) HealthStatus(ctx context.Context) (domain.HealthStatus, error) {
	return r.reports.HealthStatus(ctx)
}

// DegradationCheck is the outcome of comparing the latest run's validity
// rate against a threshold.
type DegradationCheck struct {
	Degraded     bool
	ValidityRate float64
	Threshold    float64
	Reason       string
}

// CheckQualityDegradation flags the latest run when its validity rate falls
// below the threshold (percent). A history with no runs is never degraded.
func (r *Reporter) CheckQualityDegradation(ctx context.Context, threshold float64) (DegradationCheck, error) {
	check := DegradationCheck{Threshold: threshold}

	run, err := r.reports.LatestRun(ctx)
	if err != nil {
		return check, fmt.Errorf("failed to check quality degradation: %w", err)
	}
	if run == nil {
		check.Reason = "no runs recorded"
		return check, nil
	}

	check.ValidityRate = run.ValidityRate()
	if run.TotalRows > 0 && check.ValidityRate < threshold {
		check.Degraded = true
		check.Reason = fmt.Sprintf(
			"validity rate %.1f%% below threshold %.1f%% (run %s)",
			check.ValidityRate, threshold, run.ID,
		)
	}
	return check, nil
}
