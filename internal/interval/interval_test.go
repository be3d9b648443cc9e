package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	iv, err := New("chr1", 100, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(101), iv.Len())

	single, err := New("chr1", 5, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), single.Len())

	_, err = New("chr1", 200, 100)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = New("chr1", 0, 10)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestInterval_Contains(t *testing.T) {
	iv := Interval{Chrom: "chr1", Start: 100, End: 200}

	assert.True(t, iv.Contains(100), "start inclusive")
	assert.True(t, iv.Contains(200), "end inclusive")
	assert.False(t, iv.Contains(99))
	assert.False(t, iv.Contains(201))

	assert.True(t, iv.ContainsInterval(Interval{Chrom: "chr1", Start: 100, End: 200}))
	assert.True(t, iv.ContainsInterval(Interval{Chrom: "chr1", Start: 150, End: 160}))
	assert.False(t, iv.ContainsInterval(Interval{Chrom: "chr1", Start: 150, End: 201}))
	assert.False(t, iv.ContainsInterval(Interval{Chrom: "chr2", Start: 150, End: 160}))
}

func TestInterval_Overlaps(t *testing.T) {
	iv := Interval{Chrom: "chr1", Start: 100, End: 200}

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"inside", Interval{"chr1", 120, 130}, true},
		{"touch left edge", Interval{"chr1", 50, 100}, true},
		{"touch right edge", Interval{"chr1", 200, 300}, true},
		{"adjacent left", Interval{"chr1", 50, 99}, false},
		{"adjacent right", Interval{"chr1", 201, 300}, false},
		{"other chromosome", Interval{"chr2", 120, 130}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, iv.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(iv), "symmetric")
		})
	}
}

func TestInterval_Intersect(t *testing.T) {
	a := Interval{Chrom: "chr1", Start: 100, End: 200}

	shared, ok := a.Intersect(Interval{Chrom: "chr1", Start: 150, End: 300})
	require.True(t, ok)
	assert.Equal(t, Interval{Chrom: "chr1", Start: 150, End: 200}, shared)

	_, ok = a.Intersect(Interval{Chrom: "chr1", Start: 201, End: 300})
	assert.False(t, ok)
}

func TestInterval_DistanceAndMidpoint(t *testing.T) {
	iv := Interval{Chrom: "chr1", Start: 100, End: 200}

	assert.Equal(t, int64(0), iv.Distance(150))
	assert.Equal(t, int64(0), iv.Distance(100))
	assert.Equal(t, int64(10), iv.Distance(90))
	assert.Equal(t, int64(5), iv.Distance(205))

	assert.Equal(t, int64(150), iv.Midpoint())
	assert.Equal(t, int64(150), Interval{Chrom: "chr1", Start: 100, End: 201}.Midpoint(), "floor")
}
