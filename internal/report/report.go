// Package report writes the final per-client ledger states as the output
// CSV: client,available,held,total,locked.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/luxfi/payment-engine/internal/ledger"
	"github.com/luxfi/payment-engine/internal/metrics"
	"github.com/luxfi/payment-engine/internal/xlog"
)

var header = []string{"client", "available", "held", "total", "locked"}

// Write serializes states to w as CSV. A state that fails to serialize is
// logged and skipped rather than aborting the whole report; this can only
// happen here if a future change to ClientState breaks an invariant this
// package assumes, so it is treated as recoverable rather than fatal.
func Write(w io.Writer, states []ledger.ClientState, logger *xlog.Logger, rec *metrics.Recorder) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("report: writing header: %w", err)
	}

	for _, state := range states {
		row := rowFor(state)
		if err := writer.Write(row); err != nil {
			rec.IncReportRowErrors()
			logger.Error("skipping client row in report", "client", state.Client, "error", err)
			continue
		}
		rec.IncReportRows()
	}

	writer.Flush()
	return writer.Error()
}

func rowFor(state ledger.ClientState) []string {
	total := state.Total()
	return []string{
		strconv.FormatUint(uint64(state.Client), 10),
		state.Available.String(),
		state.Held.String(),
		total.String(),
		strconv.FormatBool(state.Status == ledger.ClientFrozen),
	}
}
