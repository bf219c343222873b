// Package fetcher downloads and parses roster and reference data from
// HTTP, CSV, JSON, XLSX and ZIP sources.
package fetcher

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	// Delimiter defaults to ','.
	Delimiter rune

	// HasHeader skips the first row. When HeaderCh is also set, the
	// header is delivered there before any data row.
	HasHeader bool
	HeaderCh  chan<- []string

	LazyQuotes bool
	TrimSpace  bool
}

// StreamCSV parses r row by row. The caller must drain the row channel;
// both channels close when parsing ends, and the error channel carries
// at most one error.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		reader.LazyQuotes = opts.LazyQuotes
		// Rosters from spreadsheets often have ragged rows.
		reader.FieldsPerRecord = -1

		header := opts.HasHeader
		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			if opts.TrimSpace {
				for i := range record {
					record[i] = strings.TrimSpace(record[i])
				}
			}

			var dest chan<- []string = rowCh
			if header {
				header = false
				if opts.HeaderCh == nil {
					continue
				}
				dest = opts.HeaderCh
			}

			select {
			case dest <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}
