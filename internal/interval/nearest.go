package interval

import "sort"

// Hit is the result of a nearest-interval query.
type Hit struct {
	Pos      int64
	Match    Interval
	Distance int64 // bases from Pos to the nearest edge of Match, 0 if inside
}

// Index answers nearest-interval queries per chromosome with a binary
// search over start-sorted intervals.
type Index struct {
	chroms map[string]*nearestGroup
}

type nearestGroup struct {
	intervals []Interval // sorted by start
	maxEnd    []int64    // prefix max of End
}

// NewIndex builds a nearest-neighbour index over targets.
func NewIndex(targets []Interval) *Index {
	idx := &Index{chroms: make(map[string]*nearestGroup)}
	for chrom, g := range GroupByChrom(targets) {
		idx.chroms[chrom] = &nearestGroup{intervals: g, maxEnd: prefixMaxEnd(g)}
	}
	return idx
}

// Len returns the number of target intervals on chrom.
func (idx *Index) Len(chrom string) int {
	g, ok := idx.chroms[chrom]
	if !ok {
		return 0
	}
	return len(g.intervals)
}

// Nearest finds the target on chrom with the smallest distance to pos.
// Ties go to the first target in ascending start order. ok is false when
// chrom has no targets.
func (idx *Index) Nearest(chrom string, pos int64) (Hit, bool) {
	g, ok := idx.chroms[chrom]
	if !ok || len(g.intervals) == 0 {
		return Hit{}, false
	}
	ivs := g.intervals

	// hi is the first interval starting after pos; [0, hi) start at or before it.
	hi := sort.Search(len(ivs), func(i int) bool { return ivs[i].Start > pos })

	best := -1
	var bestDist int64
	if hi > 0 {
		// Among [0, hi) the closest interval is the one reaching furthest
		// right, capped at pos. The first index whose prefix max reaches
		// that value is the earliest such interval.
		reach := min(g.maxEnd[hi-1], pos)
		best = sort.Search(hi, func(i int) bool { return g.maxEnd[i] >= reach })
		bestDist = pos - reach
	}
	if hi < len(ivs) {
		d := ivs[hi].Start - pos
		if best < 0 || d < bestDist {
			best, bestDist = hi, d
		}
	}

	return Hit{Pos: pos, Match: ivs[best], Distance: bestDist}, true
}

// Nearest matches every query against targets on the same chromosome.
// Queries on chromosomes without targets are returned in missing.
func Nearest(queries []Interval, targets []Interval) (hits []Hit, missing []Interval) {
	idx := NewIndex(targets)
	for _, p := range queries {
		hit, ok := idx.Nearest(p.Chrom, p.Start)
		if !ok {
			missing = append(missing, p)
			continue
		}
		hits = append(hits, hit)
	}
	return hits, missing
}
