package chunk

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/inodb/vibe-chunk/internal/gtf"
	"github.com/inodb/vibe-chunk/internal/interval"
)

// Shift rewrites a record onto a segment: the chromosome becomes the chunk
// name and coordinates become relative to the segment start.
func Shift(r gtf.Record, seg Segment) gtf.Record {
	r.Chrom = seg.Name()
	if seg.Start != 1 {
		r.Start = r.Start - seg.Start + 1
		r.End = r.End - seg.Start + 1
	}
	return r
}

// Unshift reverses Shift, restoring chromosome coordinates.
func Unshift(r gtf.Record, seg Segment) gtf.Record {
	r.Chrom = seg.Chrom
	r.Start = r.Start + seg.Start - 1
	r.End = r.End + seg.Start - 1
	return r
}

// Assign distributes one chromosome's records to the segments that fully
// contain them. Records crossing a segment boundary are returned in
// dropped and appear in no segment. Input order is kept within each
// segment.
func Assign(records []gtf.Record, segments []Segment) (assigned [][]gtf.Record, dropped []gtf.Record) {
	assigned = make([][]gtf.Record, len(segments))
	for _, r := range records {
		// Last segment starting at or before the record start.
		i := sort.Search(len(segments), func(i int) bool { return segments[i].Start > r.Start }) - 1
		if i < 0 || r.End > segments[i].End {
			dropped = append(dropped, r)
			continue
		}
		assigned[i] = append(assigned[i], r)
	}
	return assigned, dropped
}

// Lift translates a chunk-local range back to chromosome coordinates using
// the offset encoded in the chunk name. Names without a chunk suffix are
// returned unchanged.
func Lift(name string, start, end int64) (interval.Interval, error) {
	if !IsChunkName(name) {
		return interval.New(name, start, end)
	}
	chrom, _, offset, err := ParseName(name)
	if err != nil {
		return interval.Interval{}, err
	}
	return interval.New(chrom, start+offset-1, end+offset-1)
}

// ParseRegion parses "name:start-end" or "name:pos". The name itself may
// contain colons.
func ParseRegion(s string) (name string, start, end int64, err error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 {
		return "", 0, 0, fmt.Errorf("invalid region %q: expected name:start-end", s)
	}
	name = s[:i]
	startStr, endStr, hasEnd := strings.Cut(s[i+1:], "-")
	if !hasEnd {
		endStr = startStr
	}
	start, err = strconv.ParseInt(strings.ReplaceAll(startStr, ",", ""), 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid region %q: parse start: %w", s, err)
	}
	end, err = strconv.ParseInt(strings.ReplaceAll(endStr, ",", ""), 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid region %q: parse end: %w", s, err)
	}
	return name, start, end, nil
}
