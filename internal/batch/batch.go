// Package batch converts CSV streams of coordinates between projections.
//
// Input rows carry the coordinate pair in the first two columns; any further
// columns pass through untouched. Rows are converted by a bounded worker
// pool and written back in input order.
package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/eskils/swegrid"
	"github.com/eskils/swegrid/projection"
)

// GeodeticName is the pseudo projection name for the geodetic side of a
// conversion: latitude/longitude in decimal degrees, no grid projection.
const GeodeticName = "wgs84"

// Converter converts coordinate pairs between two named endpoints, each
// either a catalog projection or GeodeticName.
type Converter struct {
	from *projection.Transformer // nil: input is geodetic
	to   *projection.Transformer // nil: output is geodetic
}

// NewConverter resolves both endpoint names. Transformers are shared
// process-wide, so repeated jobs over the same projections reuse them.
func NewConverter(from, to string) (*Converter, error) {
	c := &Converter{}
	if from != GeodeticName {
		t, err := swegrid.Transformer(from)
		if err != nil {
			return nil, fmt.Errorf("source projection: %w", err)
		}
		c.from = t
	}
	if to != GeodeticName {
		t, err := swegrid.Transformer(to)
		if err != nil {
			return nil, fmt.Errorf("target projection: %w", err)
		}
		c.to = t
	}
	return c, nil
}

// Convert maps one coordinate pair through the geodetic intermediate.
func (c *Converter) Convert(a, b float64) (outA, outB float64, err error) {
	lat, lon := a, b
	if c.from != nil {
		lat, lon, err = c.from.GridToGeodetic(a, b)
		if err != nil {
			return 0, 0, err
		}
	}
	if c.to == nil {
		return lat, lon, nil
	}
	return c.to.GeodeticToGrid(lat, lon)
}

// geodeticOutput reports whether output pairs are degrees rather than meters.
func (c *Converter) geodeticOutput() bool { return c.to == nil }

// Stats summarizes one batch run.
type Stats struct {
	Rows      int64 // rows read from the input
	Converted int64 // rows converted and written
	Skipped   int64 // rows dropped because the coordinate columns failed to parse
}

// Options controls a batch run.
type Options struct {
	// Concurrency is the worker count; <= 0 means NumCPU.
	Concurrency int
	// Progress draws a progress line on ProgressOut while converting.
	Progress    bool
	ProgressOut io.Writer
	// Label names the run in the progress line.
	Label string
}

// Run reads CSV rows from r, converts them with c, and writes CSV rows to w.
// Row order is preserved. Rows whose first two columns do not parse as
// floats are skipped and counted; non-finite values convert through the
// projection formulas unvalidated.
func Run(c *Converter, opts Options, r io.Reader, w io.Writer) (Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are fine, only the first two columns matter

	records, err := reader.ReadAll()
	if err != nil {
		return Stats{}, fmt.Errorf("reading input: %w", err)
	}

	workers := opts.Concurrency
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(records) {
		workers = len(records)
	}

	var pb *progress
	if opts.Progress && opts.ProgressOut != nil {
		pb = newProgress(opts.ProgressOut, opts.Label, int64(len(records)))
	}

	// Decimal places chosen per side: millimeters on the grid, about a
	// tenth of a millimeter on the ground for degrees.
	outPrec := 3
	if c.geodeticOutput() {
		outPrec = 9
	}

	var converted, skipped atomic.Int64
	keep := make([]bool, len(records))

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				row := records[idx]
				if convertRow(c, row, outPrec) {
					keep[idx] = true
					converted.Add(1)
					if pb != nil {
						pb.converted.Add(1)
					}
				} else {
					skipped.Add(1)
					if pb != nil {
						pb.skipped.Add(1)
					}
					log.Warn().Int("row", idx+1).Strs("fields", row).
						Msg("Skipping row with unparsable coordinates")
				}
			}
		}()
	}
	for idx := range records {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	if pb != nil {
		pb.Finish()
	}

	writer := csv.NewWriter(w)
	for idx, row := range records {
		if !keep[idx] {
			continue
		}
		if err := writer.Write(row); err != nil {
			return Stats{}, fmt.Errorf("writing output: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return Stats{}, fmt.Errorf("writing output: %w", err)
	}

	return Stats{
		Rows:      int64(len(records)),
		Converted: converted.Load(),
		Skipped:   skipped.Load(),
	}, nil
}

// convertRow converts one record in place. Returns false if the coordinate
// columns are missing or unparsable.
func convertRow(c *Converter, row []string, prec int) bool {
	if len(row) < 2 {
		return false
	}
	a, errA := strconv.ParseFloat(row[0], 64)
	b, errB := strconv.ParseFloat(row[1], 64)
	if errA != nil || errB != nil {
		return false
	}

	outA, outB, err := c.Convert(a, b)
	if err != nil {
		// Endpoints were resolved in NewConverter; transforms on resolved
		// projections do not fail.
		return false
	}

	row[0] = strconv.FormatFloat(outA, 'f', prec, 64)
	row[1] = strconv.FormatFloat(outB, 'f', prec, 64)
	return true
}
