package seqstore

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Samtools retrieves ranges by running `samtools faidx`.
type Samtools struct {
	Binary string // samtools executable, default "samtools"
	FASTA  string // indexed FASTA path
}

// NewSamtools creates a retriever backed by an external samtools process.
func NewSamtools(binary, fastaPath string) *Samtools {
	if binary == "" {
		binary = "samtools"
	}
	return &Samtools{Binary: binary, FASTA: fastaPath}
}

// Region formats a samtools region string.
func Region(contig string, start, end int64) string {
	return fmt.Sprintf("%s:%d-%d", contig, start, end)
}

// Fetch returns the bases of contig over [start, end].
func (s *Samtools) Fetch(ctx context.Context, contig string, start, end int64) ([]byte, error) {
	if start < 1 || end < start {
		return nil, fmt.Errorf("%w: invalid range %s", ErrRetrieval, Region(contig, start, end))
	}

	region := Region(contig, start, end)
	cmd := exec.CommandContext(ctx, s.Binary, "faidx", s.FASTA, region)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: samtools faidx %s: %v: %s", ErrRetrieval, region, err, strings.TrimSpace(stderr.String()))
	}

	bases, err := parseFASTABody(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRetrieval, region, err)
	}
	// samtools truncates out-of-range requests with only a warning.
	if int64(len(bases)) != end-start+1 {
		return nil, fmt.Errorf("%w: %s returned %d bases", ErrRetrieval, region, len(bases))
	}
	return bases, nil
}

// parseFASTABody concatenates the sequence lines of a single-record FASTA.
func parseFASTABody(data []byte) ([]byte, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var seq []byte
	headers := 0
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if bytes.HasPrefix(line, []byte(">")) {
			headers++
			continue
		}
		seq = append(seq, line...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan FASTA: %w", err)
	}
	if headers != 1 {
		return nil, fmt.Errorf("expected 1 FASTA record, got %d", headers)
	}
	return seq, nil
}
