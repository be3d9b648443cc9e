package seqstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/biogo/hts/fai"
)

// Indexed reads ranges from a FASTA file through its .fai index.
// It is safe for concurrent use.
type Indexed struct {
	mu   sync.Mutex
	f    *os.File
	idx  fai.Index
	file *fai.File
}

// IndexPath returns the conventional index location for a FASTA file.
func IndexPath(fastaPath string) string {
	return fastaPath + ".fai"
}

// OpenIndexed opens a FASTA file with its <path>.fai index. If the index
// does not exist it is built from the FASTA and written next to it.
func OpenIndexed(fastaPath string) (*Indexed, error) {
	f, err := os.Open(fastaPath)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}

	idx, err := loadOrBuildIndex(f, IndexPath(fastaPath))
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Indexed{f: f, idx: idx, file: fai.NewFile(f, idx)}, nil
}

func loadOrBuildIndex(f *os.File, indexPath string) (fai.Index, error) {
	if r, err := os.Open(indexPath); err == nil {
		defer r.Close()
		idx, err := fai.ReadFrom(r)
		if err != nil {
			return nil, fmt.Errorf("read FASTA index %s: %w", indexPath, err)
		}
		return idx, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("open FASTA index: %w", err)
	}

	idx, err := fai.NewIndex(f)
	if err != nil {
		return nil, fmt.Errorf("index FASTA: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek FASTA file: %w", err)
	}

	out, err := os.Create(indexPath)
	if err != nil {
		return nil, fmt.Errorf("create FASTA index: %w", err)
	}
	if err := fai.WriteTo(out, idx); err != nil {
		out.Close()
		os.Remove(indexPath)
		return nil, fmt.Errorf("write FASTA index: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("close FASTA index: %w", err)
	}
	return idx, nil
}

// Index returns the FASTA index.
func (s *Indexed) Index() fai.Index {
	return s.idx
}

// Close closes the underlying FASTA file.
func (s *Indexed) Close() error {
	return s.f.Close()
}

// Fetch returns the bases of contig over [start, end].
func (s *Indexed) Fetch(_ context.Context, contig string, start, end int64) ([]byte, error) {
	rec, ok := s.idx[contig]
	if !ok {
		return nil, fmt.Errorf("%w: unknown contig %q", ErrRetrieval, contig)
	}
	if start < 1 || end < start || end > int64(rec.Length) {
		return nil, fmt.Errorf("%w: %s:%d-%d out of range (length %d)", ErrRetrieval, contig, start, end, rec.Length)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// fai ranges are 0-based, half-open.
	seq, err := s.file.SeqRange(contig, int(start-1), int(end))
	if err != nil {
		return nil, fmt.Errorf("%w: %s:%d-%d: %v", ErrRetrieval, contig, start, end, err)
	}
	bases, err := io.ReadAll(seq)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s:%d-%d: %v", ErrRetrieval, contig, start, end, err)
	}
	if int64(len(bases)) != end-start+1 {
		return nil, fmt.Errorf("%w: %s:%d-%d returned %d bases", ErrRetrieval, contig, start, end, len(bases))
	}
	return bases, nil
}
