package interval

import "sort"

// GroupByChrom splits intervals by chromosome, sorting each group by start
// (ties by end). Input order does not affect the result.
func GroupByChrom(ivs []Interval) map[string][]Interval {
	groups := make(map[string][]Interval)
	for _, iv := range ivs {
		groups[iv.Chrom] = append(groups[iv.Chrom], iv)
	}
	for _, g := range groups {
		sortByStart(g)
	}
	return groups
}

// Chromosomes returns the sorted chromosome names present in a grouping.
func Chromosomes(groups map[string][]Interval) []string {
	chroms := make([]string, 0, len(groups))
	for chrom := range groups {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	return chroms
}

func sortByStart(ivs []Interval) {
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].Start != ivs[j].Start {
			return ivs[i].Start < ivs[j].Start
		}
		return ivs[i].End < ivs[j].End
	})
}

// Merge coalesces overlapping or touching intervals per chromosome into
// a canonical disjoint set: sorted by chromosome then start, with a gap
// of at least one base between neighbours.
func Merge(ivs []Interval) []Interval {
	groups := GroupByChrom(ivs)

	merged := make([]Interval, 0, len(ivs))
	for _, chrom := range Chromosomes(groups) {
		g := groups[chrom]
		cur := g[0]
		for _, next := range g[1:] {
			if next.Start <= cur.End+1 {
				cur.End = max(cur.End, next.End)
				continue
			}
			merged = append(merged, cur)
			cur = next
		}
		merged = append(merged, cur)
	}
	return merged
}

// Complement returns the gaps strictly between consecutive merged spans
// on each chromosome. Space before the first span and after the last is
// not emitted.
func Complement(merged []Interval) []Interval {
	groups := GroupByChrom(merged)

	var gaps []Interval
	for _, chrom := range Chromosomes(groups) {
		g := groups[chrom]
		for i := 0; i+1 < len(g); i++ {
			gap := Interval{Chrom: chrom, Start: g[i].End + 1, End: g[i+1].Start - 1}
			if gap.End < gap.Start {
				continue
			}
			gaps = append(gaps, gap)
		}
	}
	return gaps
}

// FilterByMinLength drops intervals shorter than minLen bases.
func FilterByMinLength(ivs []Interval, minLen int64) []Interval {
	out := make([]Interval, 0, len(ivs))
	for _, iv := range ivs {
		if iv.Len() >= minLen {
			out = append(out, iv)
		}
	}
	return out
}

// Pair links an outer interval to an inner interval that overlaps it.
// Shared is the overlapping range; it equals Inner when Inner lies fully
// inside Outer.
type Pair struct {
	Outer  Interval
	Inner  Interval
	Shared Interval
}

// JoinOverlapping pairs every interval in outer with each interval in inner
// that overlaps it on the same chromosome. Outer intervals with no
// overlapping inner interval produce no pairs. Results are ordered by
// chromosome, then outer start, then inner start.
func JoinOverlapping(outer, inner []Interval) []Pair {
	outerGroups := GroupByChrom(outer)
	innerGroups := GroupByChrom(inner)

	var pairs []Pair
	for _, chrom := range Chromosomes(outerGroups) {
		in, ok := innerGroups[chrom]
		if !ok {
			continue
		}
		tree := BuildTree(in)
		for _, o := range outerGroups[chrom] {
			for _, i := range tree.FindOverlapping(o) {
				shared, _ := o.Intersect(i)
				pairs = append(pairs, Pair{Outer: o, Inner: i, Shared: shared})
			}
		}
	}
	return pairs
}
