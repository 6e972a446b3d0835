package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/luxfi/payment-engine/internal/ledger"
	"github.com/luxfi/payment-engine/internal/xlog"
)

// DecodeBatch parses raw newline-terminated CSV text (as produced by
// ReadNumLines) into operations. Rows that fail to decode are logged and
// skipped rather than aborting the batch: one bad row should not cost the
// rest of the file, matching spec.md's malformed-row handling.
//
// malformed returns the count of rows skipped for the caller's metrics.
func DecodeBatch(raw string, logger *xlog.Logger) (ops []ledger.Operation, malformed int) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			malformed++
			logger.Warn("skipping unreadable row", "error", err)
			continue
		}

		op, err := ledger.DecodeRecord(record)
		if err != nil {
			malformed++
			logger.Warn("skipping malformed row", "error", err, "row", record)
			continue
		}

		ops = append(ops, op)
	}

	return ops, malformed
}
