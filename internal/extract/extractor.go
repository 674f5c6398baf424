// Package extract retrieves tabular batches from spreadsheet sources. The
// rest of the pipeline treats extraction as a black box producing an ordered
// sequence of raw rows.
package extract

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Amanyadav207/sheetguard/internal/domain"
)

var (
	// ErrSourceUnavailable marks transient source failures worth retrying.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrAuthInvalid marks rejected credentials; retrying cannot help.
	ErrAuthInvalid = errors.New("authentication invalid")
	// ErrNotFound marks a missing spreadsheet or sheet.
	ErrNotFound = errors.New("source not found")
	// ErrUnsupportedFormat marks a file extension no parser handles.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Extractor produces one raw batch per invocation. An empty source yields an
// empty batch, not an error.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.RawRow, error)
}

// RetryConfig bounds the retry loop for transient failures.
type RetryConfig struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// DefaultRetryConfig mirrors the production defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseBackoff: 2 * time.Second,
		MaxBackoff:  60 * time.Second,
	}
}

// withRetry runs fn with bounded exponential backoff. Only transient
// failures (ErrSourceUnavailable) are retried; auth and not-found errors
// surface immediately. After exhaustion the last error is returned, never
// swallowed.
func withRetry(ctx context.Context, log *logrus.Entry, cfg RetryConfig, fn func() error) error {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, ErrSourceUnavailable) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		wait := backoffDelay(cfg, attempt)
		log.WithFields(logrus.Fields{
			"attempt": attempt,
			"wait":    wait.String(),
		}).Warn("extraction failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}

func backoffDelay(cfg RetryConfig, attempt int) time.Duration {
	base := cfg.BaseBackoff
	if base <= 0 {
		base = time.Second
	}
	wait := base << (attempt - 1)
	if cfg.MaxBackoff > 0 && wait > cfg.MaxBackoff {
		wait = cfg.MaxBackoff
	}
	return wait
}
