package domain

import "testing"

func TestNewEtlRunInitialState(t *testing.T) {
	run := NewEtlRun()
	if run.Status != RunStatusInProgress {
		t.Fatalf("new run status = %s, want in_progress", run.Status)
	}
	if run.Status.Terminal() {
		t.Fatalf("in_progress must not be terminal")
	}
	if run.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("run id not assigned")
	}
}

func TestRunStatusTerminal(t *testing.T) {
	for _, status := range []RunStatus{RunStatusSuccess, RunStatusPartialSuccess, RunStatusFailed} {
		if !status.Terminal() {
			t.Fatalf("%s should be terminal", status)
		}
	}
}

func TestRunRates(t *testing.T) {
	run := EtlRun{
		TotalRows:       10,
		ValidRows:       8,
		InvalidRows:     2,
		DuplicateEmails: 1,
		InsertedRows:    6,
		SkippedRows:     2,
		DurationSeconds: 2,
	}

	if got := run.ValidityRate(); got != 80 {
		t.Fatalf("validity rate = %v, want 80", got)
	}
	if got := run.ErrorRate(); got != 20 {
		t.Fatalf("error rate = %v, want 20", got)
	}
	if got := run.SkipRate(); got != 25 {
		t.Fatalf("skip rate = %v, want 25", got)
	}
	if got := run.Throughput(); got != 5 {
		t.Fatalf("throughput = %v, want 5", got)
	}
}

func TestRunRatesZeroDivision(t *testing.T) {
	var run EtlRun
	if run.ValidityRate() != 0 || run.ErrorRate() != 0 || run.SkipRate() != 0 || run.Throughput() != 0 {
		t.Fatalf("zero-counter run must report zero rates")
	}
}
