// Package gtf reads and writes 9-column feature annotation tables
// (GTF/GFF layout) whose coordinates are rewritten when chromosomes are
// chunked.
package gtf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/vibe-chunk/internal/interval"
)

// ErrMalformed is returned when an annotation line does not parse.
var ErrMalformed = errors.New("malformed annotation")

// Record is one annotation row. Only Chrom, Start and End are interpreted;
// the remaining columns are carried through verbatim.
type Record struct {
	Chrom      string
	Source     string
	Feature    string
	Start      int64 // 1-based, inclusive
	End        int64 // 1-based, inclusive
	Score      string
	Strand     string
	Frame      string
	Attributes string
}

// Interval returns the record's genomic range.
func (r Record) Interval() interval.Interval {
	return interval.Interval{Chrom: r.Chrom, Start: r.Start, End: r.End}
}

// Len returns the number of bases covered by the record.
func (r Record) Len() int64 {
	return r.End - r.Start + 1
}

// Attr returns the value of a key in the attributes column, or "".
func (r Record) Attr(key string) string {
	return parseAttributes(r.Attributes)[key]
}

// String formats the record as a tab-separated line without newline.
func (r Record) String() string {
	return strings.Join([]string{
		r.Chrom,
		r.Source,
		r.Feature,
		strconv.FormatInt(r.Start, 10),
		strconv.FormatInt(r.End, 10),
		r.Score,
		r.Strand,
		r.Frame,
		r.Attributes,
	}, "\t")
}

// parseLine parses a single annotation line.
func parseLine(line string) (Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 9 {
		return Record{}, fmt.Errorf("%w: expected 9 fields, got %d", ErrMalformed, len(fields))
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: parse start: %v", ErrMalformed, err)
	}

	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("%w: parse end: %v", ErrMalformed, err)
	}

	rec := Record{
		Chrom:      fields[0],
		Source:     fields[1],
		Feature:    fields[2],
		Start:      start,
		End:        end,
		Score:      fields[5],
		Strand:     fields[6],
		Frame:      fields[7],
		Attributes: fields[8],
	}
	if err := rec.Interval().Validate(); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return rec, nil
}

// parseAttributes parses the GTF attribute column.
// Format: key "value"; key "value"; ...
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		// GFF3 uses key=value, GTF uses key "value"
		key, value, ok := strings.Cut(part, " ")
		if !ok {
			key, value, ok = strings.Cut(part, "=")
			if !ok {
				continue
			}
		}

		attrs[key] = strings.Trim(strings.TrimSpace(value), "\"")
	}

	return attrs
}
