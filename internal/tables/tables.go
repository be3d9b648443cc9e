// Package tables reads the tab-separated inputs used to plan and apply
// chunking: sequence-length indexes, gene spans, N-regions and breakpoint
// tables.
package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brentp/xopen"
	"github.com/gocarina/gocsv"

	"github.com/inodb/vibe-chunk/internal/interval"
)

// ErrMalformed is returned when an input table does not match its schema.
var ErrMalformed = errors.New("malformed table")

// columnReader feeds tab-separated rows to gocsv. Blank lines and lines
// starting with '#' are skipped, rows shorter than min are rejected and
// rows wider than max are cut to max, since gocsv maps headerless columns
// onto struct fields by position.
type columnReader struct {
	r        *csv.Reader
	min, max int
}

func newColumnReader(reader io.Reader, min, max int) *columnReader {
	r := csv.NewReader(reader)
	r.Comma = '\t'
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return &columnReader{r: r, min: min, max: max}
}

func (c *columnReader) Read() ([]string, error) {
	fields, err := c.r.Read()
	if err != nil {
		return nil, err
	}
	if len(fields) < c.min {
		line, _ := c.r.FieldPos(0)
		return nil, fmt.Errorf("%w: line %d: expected at least %d fields, got %d",
			ErrMalformed, line, c.min, len(fields))
	}
	if len(fields) > c.max {
		fields = fields[:c.max]
	}
	return fields, nil
}

func (c *columnReader) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		fields, err := c.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, fields)
	}
}

// unmarshalRows decodes a headerless table into out, a pointer to a slice
// of row structs with max fields in column order.
func unmarshalRows(reader io.Reader, min, max int, out any) error {
	err := gocsv.UnmarshalCSVWithoutHeaders(newColumnReader(reader, min, max), out)
	switch {
	case err == nil, errors.Is(err, gocsv.ErrEmptyCSVFile):
		return nil
	case errors.Is(err, ErrMalformed):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

// parseInterval parses chromosome, start and end columns into a validated
// interval.
func parseInterval(chrom, startStr, endStr string) (interval.Interval, error) {
	start, err := strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
	if err != nil {
		return interval.Interval{}, fmt.Errorf("%w: parse start: %v", ErrMalformed, err)
	}
	end, err := strconv.ParseInt(strings.TrimSpace(endStr), 10, 64)
	if err != nil {
		return interval.Interval{}, fmt.Errorf("%w: parse end: %v", ErrMalformed, err)
	}
	iv, err := interval.New(chrom, start, end)
	if err != nil {
		return interval.Interval{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return iv, nil
}

// ReadGeneSpans reads a gene-span table with columns
// gene_id, chromosome, start, end, strand, gene_symbol, gene_type.
// Only chromosome, start and end are used.
func ReadGeneSpans(path string) ([]interval.Interval, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("open gene spans: %w", err)
	}
	defer r.Close()

	spans, err := ParseGeneSpans(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spans, nil
}

// geneSpanRow is one line of a gene-span table.
type geneSpanRow struct {
	GeneID   string `csv:"gene_id"`
	Chrom    string `csv:"chromosome"`
	Start    string `csv:"start"`
	End      string `csv:"end"`
	Strand   string `csv:"strand"`
	Symbol   string `csv:"gene_symbol"`
	GeneType string `csv:"gene_type"`
}

// ParseGeneSpans parses gene-span table content. Rows need at least the
// gene_id, chromosome, start and end columns.
func ParseGeneSpans(reader io.Reader) ([]interval.Interval, error) {
	var rows []geneSpanRow
	if err := unmarshalRows(reader, 4, 7, &rows); err != nil {
		return nil, err
	}

	spans := make([]interval.Interval, 0, len(rows))
	for i, row := range rows {
		iv, err := parseInterval(row.Chrom, row.Start, row.End)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", i+1, row.GeneID, err)
		}
		spans = append(spans, iv)
	}
	return spans, nil
}

// ReadNRegions reads an N-region table with columns chromosome, start, end.
func ReadNRegions(path string) ([]interval.Interval, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("open N regions: %w", err)
	}
	defer r.Close()

	regions, err := ParseNRegions(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return regions, nil
}

type nRegionRow struct {
	Chrom string `csv:"chromosome"`
	Start string `csv:"start"`
	End   string `csv:"end"`
}

// ParseNRegions parses N-region table content.
func ParseNRegions(reader io.Reader) ([]interval.Interval, error) {
	var rows []nRegionRow
	if err := unmarshalRows(reader, 3, 3, &rows); err != nil {
		return nil, err
	}

	regions := make([]interval.Interval, 0, len(rows))
	for i, row := range rows {
		iv, err := parseInterval(row.Chrom, row.Start, row.End)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		regions = append(regions, iv)
	}
	return regions, nil
}
