package interval

import (
	"slices"
	"sort"
)

// Tree provides O(log n + k) overlap queries using a sorted-slice approach.
// All intervals in a tree belong to one chromosome; the tree is built once
// and never modified.
type Tree struct {
	intervals []Interval
	maxEnd    []int64 // maxEnd[i] = max(End) for intervals[:i+1]
}

// BuildTree creates a tree from intervals on a single chromosome.
func BuildTree(ivs []Interval) *Tree {
	if len(ivs) == 0 {
		return &Tree{}
	}

	intervals := slices.Clone(ivs)
	sortByStart(intervals)

	return &Tree{intervals: intervals, maxEnd: prefixMaxEnd(intervals)}
}

// Len returns the number of intervals in the tree.
func (t *Tree) Len() int {
	return len(t.intervals)
}

// FindOverlaps returns all intervals containing pos, in ascending start order.
func (t *Tree) FindOverlaps(pos int64) []Interval {
	return t.find(pos, pos)
}

// FindOverlapping returns all intervals sharing at least one base with q,
// in ascending start order. The chromosome of q is not checked.
func (t *Tree) FindOverlapping(q Interval) []Interval {
	return t.find(q.Start, q.End)
}

func (t *Tree) find(start, end int64) []Interval {
	if len(t.intervals) == 0 {
		return nil
	}

	// hi is the first index with start > end; candidates are [0, hi).
	hi := sort.Search(len(t.intervals), func(i int) bool {
		return t.intervals[i].Start > end
	})

	var result []Interval
	for i := hi - 1; i >= 0; i-- {
		// maxEnd[i] < start means nothing in 0..i can reach the query.
		if t.maxEnd[i] < start {
			break
		}
		if t.intervals[i].End >= start {
			result = append(result, t.intervals[i])
		}
	}

	slices.Reverse(result)
	return result
}

// prefixMaxEnd returns m where m[i] = max(End) for ivs[:i+1]. ivs must be
// sorted by start.
func prefixMaxEnd(ivs []Interval) []int64 {
	m := make([]int64, len(ivs))
	for i, iv := range ivs {
		m[i] = iv.End
		if i > 0 && m[i-1] > m[i] {
			m[i] = m[i-1]
		}
	}
	return m
}
