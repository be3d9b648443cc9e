package chunk

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vibe-chunk/internal/gtf"
	"github.com/inodb/vibe-chunk/internal/plan"
	"github.com/inodb/vibe-chunk/internal/seqstore"
)

// Chunk is one output sequence with its rewritten annotation records.
type Chunk struct {
	Segment     Segment
	Name        string // FASTA header and annotation chromosome
	Seq         []byte
	Records     []gtf.Record
	PassThrough bool // chromosome emitted unchanged
}

// Result holds everything produced for one chromosome.
type Result struct {
	Chrom   plan.Chromosome
	Chunks  []Chunk
	Dropped []gtf.Record // records spanning a breakpoint
}

// RecordCount returns the number of annotation records emitted.
func (r *Result) RecordCount() int {
	n := 0
	for _, c := range r.Chunks {
		n += len(c.Records)
	}
	return n
}

// Builder extracts chunk sequences and shifts annotations for one
// chromosome at a time.
type Builder struct {
	retriever seqstore.Retriever
	logger    *zap.Logger
}

// NewBuilder creates a builder fetching sequence through r.
func NewBuilder(r seqstore.Retriever) *Builder {
	return &Builder{
		retriever: r,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and warning messages.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// BuildChromosome partitions a chromosome at sorted, deduplicated
// breakpoints. With no breakpoints the chromosome and its records pass
// through unchanged. records must all belong to c.
func (b *Builder) BuildChromosome(ctx context.Context, c plan.Chromosome, breakpoints []int64, records []gtf.Record) (*Result, error) {
	if len(breakpoints) == 0 {
		return b.passThrough(ctx, c, records)
	}

	segments, err := Partition(c.Name, c.Length, breakpoints)
	if err != nil {
		return nil, err
	}

	assigned, dropped := Assign(records, segments)
	if len(dropped) > 0 {
		b.logger.Warn("dropping records that span a breakpoint",
			zap.String("chrom", c.Name),
			zap.Int("dropped", len(dropped)))
		for _, r := range dropped {
			b.logger.Debug("dropped record",
				zap.String("chrom", r.Chrom),
				zap.Int64("start", r.Start),
				zap.Int64("end", r.End),
				zap.String("feature", r.Feature),
				zap.String("gene_id", r.Attr("gene_id")))
		}
	}

	result := &Result{Chrom: c, Chunks: make([]Chunk, 0, len(segments)), Dropped: dropped}
	for i, seg := range segments {
		seq, err := b.retriever.Fetch(ctx, c.Name, seg.Start, seg.End)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", seg.Name(), err)
		}

		shifted := make([]gtf.Record, len(assigned[i]))
		for j, r := range assigned[i] {
			shifted[j] = Shift(r, seg)
		}

		result.Chunks = append(result.Chunks, Chunk{
			Segment: seg,
			Name:    seg.Name(),
			Seq:     seq,
			Records: shifted,
		})
	}

	b.logger.Info("chunked chromosome",
		zap.String("chrom", c.Name),
		zap.Int64("length", c.Length),
		zap.Int("chunks", len(result.Chunks)),
		zap.Int("records", result.RecordCount()))

	return result, nil
}

func (b *Builder) passThrough(ctx context.Context, c plan.Chromosome, records []gtf.Record) (*Result, error) {
	seq, err := b.retriever.Fetch(ctx, c.Name, 1, c.Length)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", c.Name, err)
	}

	b.logger.Debug("passing chromosome through",
		zap.String("chrom", c.Name),
		zap.Int64("length", c.Length),
		zap.Int("records", len(records)))

	return &Result{
		Chrom: c,
		Chunks: []Chunk{{
			Segment:     Segment{Chrom: c.Name, Start: 1, End: c.Length},
			Name:        c.Name,
			Seq:         seq,
			Records:     records,
			PassThrough: true,
		}},
	}, nil
}
