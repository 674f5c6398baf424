// Package transform turns raw extracted rows into validated records ready
// for loading, partitioning out rejects with their original payloads.
package transform

import (
	"github.com/sirupsen/logrus"

	"github.com/Amanyadav207/sheetguard/internal/domain"
	"github.com/Amanyadav207/sheetguard/pkg/validator"
)

// Row carries one record through the pipeline together with its 1-based
// position in the extracted batch, so rejects can be correlated back to the
// source after deduplication and validation.
type Row struct {
	Number int
	Raw    domain.RawRow
	Record domain.CanonicalRecord
}

// Stats are the transformation counters. TotalRows always equals
// ValidRows + InvalidRows; duplicates are dropped before validation and
// counted separately.
type Stats struct {
	TotalRows       int
	DuplicateEmails int
	ValidRows       int
	InvalidRows     int
}

// Transformer runs normalization, deduplication, and validation over a
// batch.
type Transformer struct {
	normalizer *Normalizer
	log        *logrus.Entry
}

// NewTransformer builds a transformer with the given column mapping.
func NewTransformer(mapping map[string]string, log *logrus.Entry) *Transformer {
	return &Transformer{
		normalizer: NewNormalizer(mapping),
		log:        log,
	}
}

// Transform partitions a raw batch into validated records and rejects.
func (t *Transformer) Transform(raws []domain.RawRow) ([]domain.ValidatedRecord, []domain.RejectedRecord, Stats) {
	stats := Stats{TotalRows: len(raws)}
	if len(raws) == 0 {
		return nil, nil, stats
	}

	rows := make([]Row, len(raws))
	for i, raw := range raws {
		rows[i] = Row{
			Number: i + 1,
			Raw:    raw,
			Record: t.normalizer.Normalize(raw),
		}
	}

	rows, dropped := Deduplicate(rows)
	stats.DuplicateEmails = dropped
	stats.TotalRows = len(rows)
	if dropped > 0 {
		t.log.WithField("duplicates", dropped).Warn("dropped duplicate emails from batch")
	}

	var valid []domain.ValidatedRecord
	var rejected []domain.RejectedRecord

	for _, row := range rows {
		ok, reason := validator.Record(row.Record)
		if ok {
			valid = append(valid, domain.ValidatedRecord{CanonicalRecord: row.Record})
			continue
		}
		t.log.WithFields(logrus.Fields{
			"row":    row.Number,
			"reason": reason,
		}).Debug("row rejected")
		rejected = append(rejected, domain.RejectedRecord{
			Raw:       row.Raw,
			RowNumber: row.Number,
			Reason:    reason,
		})
	}

	stats.ValidRows = len(valid)
	stats.InvalidRows = len(rejected)

	t.log.WithFields(logrus.Fields{
		"total":      stats.TotalRows,
		"valid":      stats.ValidRows,
		"invalid":    stats.InvalidRows,
		"duplicates": stats.DuplicateEmails,
	}).Info("transformation complete")

	return valid, rejected, stats
}
