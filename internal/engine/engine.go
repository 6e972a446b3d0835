// Package engine wires the ingest, dispatch and report stages into a
// single streaming run over one input file.
package engine

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/luxfi/payment-engine/internal/dispatch"
	"github.com/luxfi/payment-engine/internal/ingest"
	"github.com/luxfi/payment-engine/internal/metrics"
	"github.com/luxfi/payment-engine/internal/report"
	"github.com/luxfi/payment-engine/internal/xlog"
)

// Config controls how a Run processes its input.
type Config struct {
	// BatchSize is the number of CSV lines read per chunk.
	BatchSize int
	// MaxConcurrentClients bounds the number of client workers running
	// at once across the whole run.
	MaxConcurrentClients int64
}

// Run streams transactions from the file at inputPath, applies them to
// per-client ledgers, and writes the final account report to out. Opening
// the input file and starting the panic recorder are the only failure
// modes that return a non-nil error; everything past that point (malformed
// rows, an I/O error while reading, a worker panic, a failed report write)
// is logged and skipped so the run still produces a report.
func Run(ctx context.Context, inputPath string, out io.Writer, cfg Config, logger *xlog.Logger, rec *metrics.Recorder) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("engine: opening input: %w", err)
	}
	defer f.Close()

	panics, err := xlog.NewPanicRecorder()
	if err != nil {
		return fmt.Errorf("engine: starting panic recorder: %w", err)
	}
	defer panics.Sync()

	d := dispatch.New(cfg.MaxConcurrentClients, logger, panics, rec)

	// A rough average row width, mirroring the original engine's own
	// heuristic for sizing the underlying buffer to typically hold a
	// whole batch (see internal/ingest.ReadNumLines for the fallback
	// path when a row doesn't fit).
	const avgRowBytes = 50
	r := bufio.NewReaderSize(f, cfg.BatchSize*avgRowBytes)

	// Discard the header line.
	var discard bytes.Buffer
	_, headerErr := ingest.ReadNumLines(r, 1, &discard)
	if headerErr != nil {
		logger.Error("aborting read on I/O error", "error", headerErr)
	}

	var prevDone <-chan struct{}
	for headerErr == nil {
		var chunk bytes.Buffer
		lines, err := ingest.ReadNumLines(r, cfg.BatchSize, &chunk)
		if err != nil {
			logger.Error("aborting read on I/O error", "error", err)
			break
		}
		if lines == 0 {
			break
		}

		done := make(chan struct{})
		go func(raw string, waitFor <-chan struct{}) {
			defer close(done)
			if waitFor != nil {
				<-waitFor
			}

			ops, malformed := ingest.DecodeBatch(raw, logger)
			rec.AddRowsRead(lines)
			if malformed > 0 {
				for i := 0; i < malformed; i++ {
					rec.IncRowsMalformed()
				}
			}

			d.Dispatch(ctx, ops)
		}(chunk.String(), prevDone)
		prevDone = done
	}

	if prevDone != nil {
		<-prevDone
	}

	states := d.Drain()
	if err := report.Write(out, states, logger, rec); err != nil {
		logger.Error("writing report", "error", err)
	}
	return nil
}
