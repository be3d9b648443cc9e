package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTree_Empty(t *testing.T) {
	tree := BuildTree(nil)
	assert.Empty(t, tree.FindOverlaps(100))
	assert.Equal(t, 0, tree.Len())
}

func TestTree_SingleInterval(t *testing.T) {
	tree := BuildTree([]Interval{{"chr1", 100, 200}})

	assert.Len(t, tree.FindOverlaps(150), 1)
	assert.Len(t, tree.FindOverlaps(100), 1, "start boundary inclusive")
	assert.Len(t, tree.FindOverlaps(200), 1, "end boundary inclusive")
	assert.Empty(t, tree.FindOverlaps(99), "before start")
	assert.Empty(t, tree.FindOverlaps(201), "after end")
}

func TestTree_Overlapping(t *testing.T) {
	tree := BuildTree([]Interval{
		{"chr1", 200, 400},
		{"chr1", 100, 300},
		{"chr1", 150, 250},
	})

	assert.Equal(t, []Interval{{"chr1", 100, 300}, {"chr1", 150, 250}}, tree.FindOverlaps(175))
	assert.Len(t, tree.FindOverlaps(250), 3)
	assert.Equal(t, []Interval{{"chr1", 200, 400}}, tree.FindOverlaps(350))
}

func TestTree_LongIntervalBeforeShort(t *testing.T) {
	// A long interval followed by a short one must still be found past the short one's end.
	tree := BuildTree([]Interval{
		{"chr1", 100, 1000},
		{"chr1", 200, 210},
	})
	assert.Equal(t, []Interval{{"chr1", 100, 1000}}, tree.FindOverlaps(500))
}

func TestTree_FindOverlapping(t *testing.T) {
	tree := BuildTree([]Interval{
		{"chr1", 100, 200},
		{"chr1", 300, 400},
		{"chr1", 500, 600},
	})

	got := tree.FindOverlapping(Interval{"chr1", 200, 300})
	assert.Equal(t, []Interval{{"chr1", 100, 200}, {"chr1", 300, 400}}, got)
	assert.Empty(t, tree.FindOverlapping(Interval{"chr1", 401, 499}))
}

func TestTree_MatchesLinearScan(t *testing.T) {
	ivs := []Interval{
		{"chr1", 1000, 5000},
		{"chr1", 2000, 3000},
		{"chr1", 4000, 8000},
		{"chr1", 6000, 7000},
		{"chr1", 9000, 10000},
	}
	tree := BuildTree(ivs)

	for pos := int64(0); pos <= 11000; pos += 250 {
		var linear []Interval
		for _, iv := range ivs {
			if iv.Contains(pos) {
				linear = append(linear, iv)
			}
		}
		assert.ElementsMatch(t, linear, tree.FindOverlaps(pos), "pos=%d", pos)
	}
}
