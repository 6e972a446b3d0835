// Package ingest reads the input CSV in bounded line-oriented chunks and
// decodes each chunk into ledger operations, mirroring the original
// engine's fill_buf/consume reading discipline so memory use stays
// proportional to a single batch rather than the whole file.
package ingest

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// ReadNumLines copies up to numLines newline-terminated lines from r into
// buf, returning the number of lines copied. It never allocates more than
// the underlying bufio.Reader's buffer at a time: each iteration inspects
// only what is already buffered (or forces a single refill via Peek), so a
// caller bounding numLines bounds the working set for a batch.
//
// A final line with no trailing newline (EOF reached mid-line) counts as a
// complete line. Reaching EOF with nothing buffered ends the read early,
// returning fewer than numLines with a nil error; io.EOF is not surfaced to
// the caller since running out of input is an expected way for a batch to
// end, not a failure.
func ReadNumLines(r *bufio.Reader, numLines int, buf *bytes.Buffer) (int, error) {
	read := 0
	for read < numLines {
		chunk, err := r.Peek(1)
		if len(chunk) == 0 {
			if errors.Is(err, io.EOF) {
				return read, nil
			}
			if err != nil {
				return read, err
			}
			// Peek(1) returned no data and no error: treat as a
			// transient short read and retry.
			continue
		}

		available := r.Buffered()
		view, _ := r.Peek(available)

		if idx := bytes.IndexByte(view, '\n'); idx >= 0 {
			buf.Write(view[:idx+1])
			if _, err := r.Discard(idx + 1); err != nil {
				return read, err
			}
			read++
			continue
		}

		// No newline buffered yet. Consume what's here and force
		// another refill by peeking one byte past it.
		buf.Write(view)
		if _, err := r.Discard(available); err != nil {
			return read, err
		}

		if _, err := r.Peek(1); err != nil {
			if errors.Is(err, io.EOF) {
				if view := buf.Len(); view > 0 {
					read++
				}
				return read, nil
			}
			return read, err
		}
	}
	return read, nil
}
