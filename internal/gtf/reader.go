package gtf

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/brentp/xopen"
)

// Read loads every record from an annotation file. Gzipped files and "-"
// (stdin) are handled transparently.
func Read(path string) ([]Record, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("open annotation file: %w", err)
	}
	defer r.Close()

	records, err := ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ReadFrom parses annotation content. Comment lines (#) and blank lines
// are skipped; any other line that fails to parse is an error.
func ReadFrom(reader io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(reader)
	// Attribute columns can be long
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var records []Record
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rec, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan annotation: %w", err)
	}

	return records, nil
}

// GroupByChrom splits records by chromosome, preserving input order within
// each chromosome.
func GroupByChrom(records []Record) map[string][]Record {
	groups := make(map[string][]Record)
	for _, r := range records {
		groups[r.Chrom] = append(groups[r.Chrom], r)
	}
	return groups
}
