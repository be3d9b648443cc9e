package tables

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/biogo/hts/fai"

	"github.com/inodb/vibe-chunk/internal/plan"
)

// ReadLengths reads a FASTA index (.fai) and returns chromosome lengths in
// the order the sequences appear in the FASTA file.
func ReadLengths(path string) ([]plan.Chromosome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sequence index: %w", err)
	}
	defer f.Close()

	chroms, err := ParseLengths(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return chroms, nil
}

// ParseLengths parses .fai content.
func ParseLengths(r io.Reader) ([]plan.Chromosome, error) {
	idx, err := fai.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return LengthsFromIndex(idx), nil
}

// LengthsFromIndex orders index records by file offset, which is the
// order of the sequences in the FASTA file.
func LengthsFromIndex(idx fai.Index) []plan.Chromosome {
	records := make([]fai.Record, 0, len(idx))
	for _, rec := range idx {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Start < records[j].Start
	})

	chroms := make([]plan.Chromosome, len(records))
	for i, rec := range records {
		chroms[i] = plan.Chromosome{Name: rec.Name, Length: int64(rec.Length)}
	}
	return chroms
}
