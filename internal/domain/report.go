package domain

import "time"

// DailyMetrics aggregates run activity for one calendar day.
type DailyMetrics struct {
	RunDate        string  `json:"run_date"`
	RunsCount      int     `json:"runs_count"`
	TotalRows      int     `json:"total_rows"`
	ValidRows      int     `json:"valid_rows"`
	InvalidRows    int     `json:"invalid_rows"`
	Duplicates     int     `json:"duplicates"`
	Inserted       int     `json:"inserted"`
	Skipped        int     `json:"skipped"`
	AvgDuration    float64 `json:"avg_duration"`
	SuccessfulRuns int     `json:"successful_runs"`
	FailedRuns     int     `json:"failed_runs"`
}

// ValidityRate is the day's share of valid rows, in percent.
func (d DailyMetrics) ValidityRate() float64 {
	if d.TotalRows == 0 {
		return 0
	}
	return float64(d.ValidRows) / float64(d.TotalRows) * 100
}

// ErrorRate is the day's share of invalid rows, in percent.
func (d DailyMetrics) ErrorRate() float64 {
	if d.TotalRows == 0 {
		return 0
	}
	return float64(d.InvalidRows) / float64(d.TotalRows) * 100
}

// ErrorFrequency ranks one rejection reason across the dead-letter table.
type ErrorFrequency struct {
	ErrorReason    string    `json:"error_reason"`
	Frequency      int       `json:"frequency"`
	AffectedRuns   int       `json:"affected_runs"`
	PctOfTotal     float64   `json:"pct_of_total"`
	LastOccurrence time.Time `json:"last_occurrence"`
}

// HealthStatus summarizes lifetime pipeline activity.
type HealthStatus struct {
	TotalRuns          int        `json:"total_runs"`
	SuccessfulRuns     int        `json:"successful_runs"`
	TotalRowsProcessed int        `json:"total_rows_processed"`
	TotalValidRows     int        `json:"total_valid_rows"`
	TotalInvalidRows   int        `json:"total_invalid_rows"`
	CurrentStudents    int        `json:"current_students"`
	LastRunTime        *time.Time `json:"last_run_time,omitempty"`
}

// OverallValidityPct is the lifetime validity share, in percent.
func (h HealthStatus) OverallValidityPct() float64 {
	if h.TotalRowsProcessed == 0 {
		return 0
	}
	return float64(h.TotalValidRows) / float64(h.TotalRowsProcessed) * 100
}
