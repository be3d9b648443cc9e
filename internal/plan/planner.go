// Package plan selects chunk breakpoints that fall inside intergenic
// N-regions, as close as possible to evenly spaced targets.
package plan

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/inodb/vibe-chunk/internal/interval"
)

// DefaultMinNRegionLength drops N runs of 10 bases or fewer.
const DefaultMinNRegionLength = 11

// ErrNoAnchor is returned when a chunk target has no intergenic N-region
// on its chromosome to snap to.
var ErrNoAnchor = errors.New("no intergenic N-region anchor")

// ErrUnsafeBreakpoint is returned if a selected breakpoint falls inside a
// merged gene span.
var ErrUnsafeBreakpoint = errors.New("breakpoint inside gene span")

// Breakpoint is a selected cut position. Position is the first base of
// the chunk that starts there.
type Breakpoint struct {
	Chrom      string  `csv:"Chromosome"`
	Position   int64   `csv:"brkpt"`
	OffsetFrac float64 `csv:"chunksize_offset_frac"`
}

// Chromosome is a sequence name and its length in bases.
type Chromosome struct {
	Name   string
	Length int64
}

// Planner chooses breakpoints for chromosomes longer than MaxChunkSize.
type Planner struct {
	maxChunkSize int64
	anchors      *interval.Index
	genes        map[string]*interval.Tree
	logger       *zap.Logger
}

// NewPlanner prepares anchors from gene spans and N-regions:
// merge(gene spans) -> complement -> intersect with N-regions that are at
// least minNLength bases long. Each anchor is the part of an N-region lying
// inside an intergenic interval.
func NewPlanner(maxChunkSize int64, geneSpans, nRegions []interval.Interval, minNLength int64) (*Planner, error) {
	if maxChunkSize < 1 {
		return nil, fmt.Errorf("max chunk size must be positive, got %d", maxChunkSize)
	}

	merged := interval.Merge(geneSpans)
	intergenic := interval.Complement(merged)
	pairs := interval.JoinOverlapping(intergenic, interval.FilterByMinLength(nRegions, minNLength))

	anchors := make([]interval.Interval, len(pairs))
	for i, p := range pairs {
		anchors[i] = p.Shared
	}

	genes := make(map[string]*interval.Tree)
	for chrom, spans := range interval.GroupByChrom(merged) {
		genes[chrom] = interval.BuildTree(spans)
	}

	return &Planner{
		maxChunkSize: maxChunkSize,
		anchors:      interval.NewIndex(anchors),
		genes:        genes,
		logger:       zap.NewNop(),
	}, nil
}

// SetLogger sets the logger for progress messages.
func (p *Planner) SetLogger(l *zap.Logger) {
	p.logger = l
}

// NeedsChunking reports whether a chromosome exceeds the chunk size limit.
func (p *Planner) NeedsChunking(c Chromosome) bool {
	return c.Length > p.maxChunkSize
}

// Targets returns the evenly spaced ideal cut positions for a chromosome
// of the given length: ceil(length/max) chunks of round(length/chunks)
// bases, one target between each pair of chunks. Halves round to even.
func Targets(length, maxChunkSize int64) []int64 {
	if length <= maxChunkSize {
		return nil
	}
	numChunks := (length + maxChunkSize - 1) / maxChunkSize
	chunkSize := int64(math.RoundToEven(float64(length) / float64(numChunks)))

	targets := make([]int64, 0, numChunks-1)
	for i := int64(1); i < numChunks; i++ {
		targets = append(targets, chunkSize*i)
	}
	return targets
}

// PlanChromosome returns one breakpoint per target for a chromosome, in
// target order. Chromosomes within the size limit yield no breakpoints.
func (p *Planner) PlanChromosome(c Chromosome) ([]Breakpoint, error) {
	targets := Targets(c.Length, p.maxChunkSize)
	if len(targets) == 0 {
		return nil, nil
	}

	p.logger.Info("planning chromosome",
		zap.String("chrom", c.Name),
		zap.Int64("length", c.Length),
		zap.Int("chunks", len(targets)+1),
		zap.Int("anchors", p.anchors.Len(c.Name)))

	breakpoints := make([]Breakpoint, 0, len(targets))
	for _, target := range targets {
		hit, ok := p.anchors.Nearest(c.Name, target)
		if !ok {
			return nil, fmt.Errorf("%w: chromosome %s target %d", ErrNoAnchor, c.Name, target)
		}

		pos := hit.Match.Midpoint()
		if tree, ok := p.genes[c.Name]; ok {
			if spans := tree.FindOverlaps(pos); len(spans) > 0 {
				return nil, fmt.Errorf("%w: %s:%d overlaps %s", ErrUnsafeBreakpoint, c.Name, pos, spans[0])
			}
		}

		bp := Breakpoint{
			Chrom:      c.Name,
			Position:   pos,
			OffsetFrac: float64(hit.Distance) / float64(p.maxChunkSize),
		}
		p.logger.Debug("selected breakpoint",
			zap.String("chrom", c.Name),
			zap.Int64("target", target),
			zap.Int64("breakpoint", bp.Position),
			zap.Float64("offset_frac", bp.OffsetFrac))
		breakpoints = append(breakpoints, bp)
	}

	return breakpoints, nil
}

// ChromosomeError reports the chromosome a planning failure happened on.
type ChromosomeError struct {
	Chrom string
	Err   error
}

func (e *ChromosomeError) Error() string {
	return e.Chrom + ": " + e.Err.Error()
}

func (e *ChromosomeError) Unwrap() error {
	return e.Err
}

// Plan computes breakpoints for every chromosome that needs chunking, in
// input order. Failures are returned as *ChromosomeError.
func (p *Planner) Plan(chroms []Chromosome) ([]Breakpoint, error) {
	var all []Breakpoint
	for _, c := range chroms {
		if !p.NeedsChunking(c) {
			continue
		}
		bps, err := p.PlanChromosome(c)
		if err != nil {
			return nil, &ChromosomeError{Chrom: c.Name, Err: err}
		}
		all = append(all, bps...)
	}
	return all, nil
}

// SortedPositions groups breakpoints by chromosome and returns each
// chromosome's positions sorted ascending with duplicates removed.
func SortedPositions(bps []Breakpoint) map[string][]int64 {
	byChrom := make(map[string][]int64)
	for _, bp := range bps {
		byChrom[bp.Chrom] = append(byChrom[bp.Chrom], bp.Position)
	}
	for chrom, positions := range byChrom {
		slices.Sort(positions)
		byChrom[chrom] = slices.Compact(positions)
	}
	return byChrom
}
