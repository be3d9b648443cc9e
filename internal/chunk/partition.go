// Package chunk partitions chromosomes at breakpoints, extracts the chunk
// sequences and rewrites annotation coordinates to be chunk-relative.
package chunk

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/vibe-chunk/internal/interval"
)

// ErrInvalidBreakpoint is returned for breakpoints that are unsorted,
// duplicated, or outside (1, length].
var ErrInvalidBreakpoint = errors.New("invalid breakpoint")

// ErrInvalidName is returned when a chunk name cannot be parsed.
var ErrInvalidName = errors.New("invalid chunk name")

// Segment is one contiguous piece of a chromosome.
type Segment struct {
	Chrom   string
	Ordinal int   // 0-based position of the segment within the chromosome
	Start   int64 // 1-based, inclusive, on the original chromosome
	End     int64 // 1-based, inclusive, on the original chromosome
}

// Name returns the chunk name "<chrom>^c<ordinal>^o<start>".
func (s Segment) Name() string {
	return Name(s.Chrom, s.Ordinal, s.Start)
}

// Len returns the segment length in bases.
func (s Segment) Len() int64 {
	return s.End - s.Start + 1
}

// Interval returns the segment's range on the original chromosome.
func (s Segment) Interval() interval.Interval {
	return interval.Interval{Chrom: s.Chrom, Start: s.Start, End: s.End}
}

// Name formats a chunk name.
func Name(chrom string, ordinal int, start int64) string {
	return fmt.Sprintf("%s^c%d^o%d", chrom, ordinal, start)
}

// ParseName splits a chunk name into its chromosome, ordinal and offset
// (the 1-based start of the chunk on the chromosome).
func ParseName(name string) (chrom string, ordinal int, offset int64, err error) {
	i := strings.LastIndex(name, "^c")
	if i <= 0 {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	ordStr, offStr, ok := strings.Cut(name[i+2:], "^o")
	if !ok {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	ordinal, err = strconv.Atoi(ordStr)
	if err != nil || ordinal < 0 {
		return "", 0, 0, fmt.Errorf("%w: %q: bad ordinal", ErrInvalidName, name)
	}
	offset, err = strconv.ParseInt(offStr, 10, 64)
	if err != nil || offset < 1 {
		return "", 0, 0, fmt.Errorf("%w: %q: bad offset", ErrInvalidName, name)
	}
	return name[:i], ordinal, offset, nil
}

// IsChunkName reports whether name carries a chunk suffix.
func IsChunkName(name string) bool {
	_, _, _, err := ParseName(name)
	return err == nil
}

// Partition splits [1, length] at sorted, deduplicated breakpoints
// b1 < b2 < ... < bk into k+1 segments
// [1, b1-1], [b1, b2-1], ..., [bk, length].
func Partition(chrom string, length int64, breakpoints []int64) ([]Segment, error) {
	if length < 1 {
		return nil, fmt.Errorf("%w: chromosome %s has length %d", ErrInvalidBreakpoint, chrom, length)
	}

	segments := make([]Segment, 0, len(breakpoints)+1)
	start := int64(1)
	for i, b := range breakpoints {
		if b <= start || b > length {
			return nil, fmt.Errorf("%w: %s breakpoint %d (index %d) must be in (%d, %d]",
				ErrInvalidBreakpoint, chrom, b, i, start, length)
		}
		segments = append(segments, Segment{Chrom: chrom, Ordinal: i, Start: start, End: b - 1})
		start = b
	}
	segments = append(segments, Segment{Chrom: chrom, Ordinal: len(breakpoints), Start: start, End: length})
	return segments, nil
}
