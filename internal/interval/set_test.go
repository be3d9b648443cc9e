package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	input := []Interval{
		{"chr2", 50, 60},
		{"chr1", 300, 400},
		{"chr1", 100, 200},
		{"chr1", 150, 250},
		{"chr1", 251, 260}, // touches previous merged span
		{"chr1", 262, 270}, // one-base gap, stays separate
		{"chr1", 120, 130}, // nested
	}

	got := Merge(input)
	want := []Interval{
		{"chr1", 100, 260},
		{"chr1", 262, 270},
		{"chr1", 300, 400},
		{"chr2", 50, 60},
	}
	assert.Equal(t, want, got)
}

func TestMerge_OrderIndependent(t *testing.T) {
	a := []Interval{{"chr1", 1, 10}, {"chr1", 5, 20}, {"chr1", 40, 50}, {"chr3", 7, 9}}
	b := []Interval{{"chr3", 7, 9}, {"chr1", 40, 50}, {"chr1", 5, 20}, {"chr1", 1, 10}}
	assert.Equal(t, Merge(a), Merge(b))
}

func TestMerge_Canonical(t *testing.T) {
	input := []Interval{
		{"chr1", 1000, 5000}, {"chr1", 2000, 3000}, {"chr1", 4000, 8000},
		{"chr1", 6000, 7000}, {"chr1", 9000, 10000}, {"chr1", 8001, 8500},
	}
	merged := Merge(input)
	for i := 1; i < len(merged); i++ {
		assert.Greater(t, merged[i].Start, merged[i-1].End+1, "gap between %v and %v", merged[i-1], merged[i])
	}
	assert.Equal(t, []Interval{{"chr1", 1000, 8500}, {"chr1", 9000, 10000}}, merged)
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge(nil))
}

func TestComplement(t *testing.T) {
	merged := []Interval{
		{"chr1", 100, 200},
		{"chr1", 201, 300}, // adjacent, no gap
		{"chr1", 500, 600},
		{"chr2", 10, 20},
	}

	got := Complement(merged)
	assert.Equal(t, []Interval{{"chr1", 301, 499}}, got,
		"only gaps strictly between spans; none before first or after last")
}

func TestFilterByMinLength(t *testing.T) {
	ivs := []Interval{
		{"chr1", 1, 10},  // 10 bases
		{"chr1", 20, 30}, // 11 bases
		{"chr1", 40, 40},
	}
	assert.Equal(t, []Interval{{"chr1", 20, 30}}, FilterByMinLength(ivs, 11))
}

func TestJoinOverlapping(t *testing.T) {
	intergenic := []Interval{
		{"chr1", 1000, 2000},
		{"chr1", 3000, 4000},
		{"chr2", 100, 200},
	}
	nRegions := []Interval{
		{"chr1", 1500, 1600}, // inside first
		{"chr1", 1900, 2100}, // straddles end of first
		{"chr1", 5000, 5100}, // outside all
		{"chr2", 150, 160},
		{"chr3", 1, 100},
	}

	pairs := JoinOverlapping(intergenic, nRegions)
	require.Len(t, pairs, 3)

	assert.Equal(t, Interval{"chr1", 1000, 2000}, pairs[0].Outer)
	assert.Equal(t, Interval{"chr1", 1500, 1600}, pairs[0].Inner)
	assert.Equal(t, pairs[0].Inner, pairs[0].Shared)

	assert.Equal(t, Interval{"chr1", 1900, 2100}, pairs[1].Inner)
	assert.Equal(t, Interval{"chr1", 1900, 2000}, pairs[1].Shared, "clipped to intergenic")

	assert.Equal(t, "chr2", pairs[2].Outer.Chrom)
}
