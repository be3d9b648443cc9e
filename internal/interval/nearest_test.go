package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_Nearest(t *testing.T) {
	idx := NewIndex([]Interval{
		{"chr1", 100, 200},
		{"chr1", 400, 500},
		{"chr1", 1000, 1100},
		{"chr2", 50, 60},
	})

	tests := []struct {
		name     string
		pos      int64
		want     Interval
		distance int64
	}{
		{"inside", 150, Interval{"chr1", 100, 200}, 0},
		{"on edge", 400, Interval{"chr1", 400, 500}, 0},
		{"left of all", 10, Interval{"chr1", 100, 200}, 90},
		{"right of all", 2000, Interval{"chr1", 1000, 1100}, 900},
		{"closer to right", 390, Interval{"chr1", 400, 500}, 10},
		{"closer to left", 210, Interval{"chr1", 100, 200}, 10},
		{"tie goes to earlier start", 300, Interval{"chr1", 100, 200}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := idx.Nearest("chr1", tt.pos)
			require.True(t, ok)
			assert.Equal(t, tt.want, hit.Match)
			assert.Equal(t, tt.distance, hit.Distance)
			assert.Equal(t, tt.pos, hit.Pos)
		})
	}

	_, ok := idx.Nearest("chr3", 100)
	assert.False(t, ok)
	assert.Equal(t, 3, idx.Len("chr1"))
	assert.Equal(t, 0, idx.Len("chr3"))
}

func TestIndex_NearestOverlappingTargets(t *testing.T) {
	idx := NewIndex([]Interval{
		{"chr1", 100, 1000},
		{"chr1", 200, 300},
		{"chr1", 250, 900},
	})

	hit, ok := idx.Nearest("chr1", 950)
	require.True(t, ok)
	assert.Equal(t, Interval{"chr1", 100, 1000}, hit.Match, "long early interval still contains pos")
	assert.Equal(t, int64(0), hit.Distance)

	hit, _ = idx.Nearest("chr1", 260)
	assert.Equal(t, Interval{"chr1", 100, 1000}, hit.Match, "first containing interval by start")
}

func TestIndex_NearestMatchesLinearScan(t *testing.T) {
	targets := []Interval{
		{"chr1", 500, 520}, {"chr1", 100, 130}, {"chr1", 900, 2000},
		{"chr1", 1200, 1300}, {"chr1", 2600, 2700}, {"chr1", 2650, 2660},
	}
	idx := NewIndex(targets)
	sorted := GroupByChrom(targets)["chr1"]

	for pos := int64(1); pos <= 3000; pos += 7 {
		best := sorted[0]
		bestDist := best.Distance(pos)
		for _, iv := range sorted[1:] {
			if d := iv.Distance(pos); d < bestDist {
				best, bestDist = iv, d
			}
		}
		hit, ok := idx.Nearest("chr1", pos)
		require.True(t, ok)
		assert.Equal(t, bestDist, hit.Distance, "pos=%d", pos)
		assert.Equal(t, best, hit.Match, "pos=%d", pos)
	}
}

func TestNearest_Batch(t *testing.T) {
	targets := []Interval{{"chr1", 100, 200}}
	queries := []Interval{Point("chr1", 50), Point("chr2", 50)}

	hits, missing := Nearest(queries, targets)
	require.Len(t, hits, 1)
	assert.Equal(t, int64(50), hits[0].Distance)
	assert.Equal(t, []Interval{Point("chr2", 50)}, missing)
}
