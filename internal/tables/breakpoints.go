package tables

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/inodb/vibe-chunk/internal/plan"
)

// WriteBreakpoints writes a breakpoint table with header
// Chromosome, brkpt, chunksize_offset_frac.
func WriteBreakpoints(w io.Writer, bps []plan.Breakpoint) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	sw := gocsv.NewSafeCSVWriter(cw)

	if len(bps) == 0 {
		// gocsv cannot derive a header from an empty slice
		if err := cw.Write([]string{"Chromosome", "brkpt", "chunksize_offset_frac"}); err != nil {
			return fmt.Errorf("write breakpoint header: %w", err)
		}
	} else if err := gocsv.MarshalCSV(&bps, sw); err != nil {
		return fmt.Errorf("write breakpoints: %w", err)
	}

	sw.Flush()
	return sw.Error()
}

// ReadBreakpoints reads a breakpoint table written by WriteBreakpoints.
func ReadBreakpoints(path string) ([]plan.Breakpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open breakpoints: %w", err)
	}
	defer f.Close()

	bps, err := ParseBreakpoints(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bps, nil
}

// ParseBreakpoints parses breakpoint table content.
func ParseBreakpoints(r io.Reader) ([]plan.Breakpoint, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1

	var bps []plan.Breakpoint
	if err := gocsv.UnmarshalCSV(cr, &bps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	for i, bp := range bps {
		if bp.Chrom == "" || bp.Position < 1 {
			return nil, fmt.Errorf("%w: row %d: invalid breakpoint %s:%d", ErrMalformed, i+1, bp.Chrom, bp.Position)
		}
	}
	return bps, nil
}
