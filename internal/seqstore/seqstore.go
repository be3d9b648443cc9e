// Package seqstore retrieves sub-sequences of a genome by contig and
// 1-based closed range, and writes chunked sequences as FASTA.
package seqstore

import (
	"context"
	"errors"
)

// ErrRetrieval is returned when a sequence range cannot be retrieved:
// unknown contig, out-of-range coordinates, or a failed lookup.
var ErrRetrieval = errors.New("sequence retrieval failed")

// Retriever returns the bases of contig over [start, end], 1-based and
// inclusive on both ends.
type Retriever interface {
	Fetch(ctx context.Context, contig string, start, end int64) ([]byte, error)
}
