// Package interval provides 1-based, closed genomic intervals and the
// interval algebra used to plan chunk boundaries.
package interval

import (
	"errors"
	"fmt"
)

// ErrInvalidInterval is returned when an interval has start > end or a
// start before position 1.
var ErrInvalidInterval = errors.New("invalid interval")

// Interval is a 1-based, closed genomic range on a single chromosome.
type Interval struct {
	Chrom string
	Start int64 // 1-based, inclusive
	End   int64 // 1-based, inclusive
}

// New creates a validated interval.
func New(chrom string, start, end int64) (Interval, error) {
	iv := Interval{Chrom: chrom, Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// Point returns the single-base interval at pos.
func Point(chrom string, pos int64) Interval {
	return Interval{Chrom: chrom, Start: pos, End: pos}
}

// Validate reports ErrInvalidInterval for malformed coordinates.
func (iv Interval) Validate() error {
	if iv.Start < 1 || iv.End < iv.Start {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, iv)
	}
	return nil
}

// Len returns the number of bases covered by the interval.
func (iv Interval) Len() int64 {
	return iv.End - iv.Start + 1
}

// Contains returns true if pos lies within the interval.
func (iv Interval) Contains(pos int64) bool {
	return pos >= iv.Start && pos <= iv.End
}

// ContainsInterval returns true if other lies entirely within iv on the
// same chromosome.
func (iv Interval) ContainsInterval(other Interval) bool {
	return iv.Chrom == other.Chrom && other.Start >= iv.Start && other.End <= iv.End
}

// Overlaps returns true if the two intervals share at least one base.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Chrom == other.Chrom && iv.Start <= other.End && other.Start <= iv.End
}

// Intersect returns the shared range of two overlapping intervals.
func (iv Interval) Intersect(other Interval) (Interval, bool) {
	if !iv.Overlaps(other) {
		return Interval{}, false
	}
	return Interval{
		Chrom: iv.Chrom,
		Start: max(iv.Start, other.Start),
		End:   min(iv.End, other.End),
	}, true
}

// Distance returns the number of bases between pos and the nearest edge
// of the interval, or 0 when pos lies inside it.
func (iv Interval) Distance(pos int64) int64 {
	switch {
	case pos < iv.Start:
		return iv.Start - pos
	case pos > iv.End:
		return pos - iv.End
	}
	return 0
}

// Midpoint returns floor((start + end) / 2).
func (iv Interval) Midpoint() int64 {
	return (iv.Start + iv.End) / 2
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", iv.Chrom, iv.Start, iv.End)
}
