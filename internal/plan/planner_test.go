package plan

import (
	"errors"
	"strings"
	"testing"

	"github.com/inodb/vibe-chunk/internal/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iv(chrom string, start, end int64) interval.Interval {
	return interval.Interval{Chrom: chrom, Start: start, End: end}
}

func TestTargets(t *testing.T) {
	tests := []struct {
		name   string
		length int64
		max    int64
		want   []int64
	}{
		{"fits", 16000, 400000, nil},
		{"exactly max", 400000, 400000, nil},
		{"three chunks", 1000000, 400000, []int64{333333, 666666}},
		{"two chunks", 400001, 400000, []int64{200000}},
		{"half rounds to even down", 5, 4, []int64{2}},
		{"half rounds to even up", 7, 4, []int64{4}},
		{"many chunks", 10, 4, []int64{3, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Targets(tt.length, tt.max))
		})
	}
}

func chr1Fixture(t *testing.T) *Planner {
	t.Helper()
	genes := []interval.Interval{
		iv("chr1", 300000, 333000),
		iv("chr1", 333500, 400000),
		iv("chr1", 350000, 380000), // nested, merged away
		iv("chr1", 600000, 666000),
		iv("chr1", 668000, 700000),
	}
	nRegions := []interval.Interval{
		iv("chr1", 333400, 333420),
		iv("chr1", 666600, 666609), // 10 bases, too short
		iv("chr1", 667012, 667032),
		iv("chr1", 100, 200), // before the first gene, not intergenic
	}
	p, err := NewPlanner(400000, genes, nRegions, DefaultMinNRegionLength)
	require.NoError(t, err)
	return p
}

func TestPlanChromosome_Scenario(t *testing.T) {
	p := chr1Fixture(t)

	bps, err := p.PlanChromosome(Chromosome{Name: "chr1", Length: 1000000})
	require.NoError(t, err)
	require.Len(t, bps, 2)

	assert.Equal(t, "chr1", bps[0].Chrom)
	assert.Equal(t, int64(333410), bps[0].Position)
	assert.InDelta(t, float64(333400-333333)/400000, bps[0].OffsetFrac, 1e-12)

	assert.Equal(t, int64(667022), bps[1].Position)
	assert.InDelta(t, float64(667012-666666)/400000, bps[1].OffsetFrac, 1e-12)
}

func TestPlanChromosome_RejectsGeneOverlap(t *testing.T) {
	genes := []interval.Interval{
		iv("chr1", 300000, 333000),
		iv("chr1", 333400, 333420), // covers the closest N-region
		iv("chr1", 360000, 400000),
	}
	nRegions := []interval.Interval{
		iv("chr1", 333400, 333420),
		iv("chr1", 350000, 350100),
	}
	p, err := NewPlanner(400000, genes, nRegions, DefaultMinNRegionLength)
	require.NoError(t, err)

	bps, err := p.PlanChromosome(Chromosome{Name: "chr1", Length: 700000})
	require.NoError(t, err)
	require.Len(t, bps, 1)
	assert.Equal(t, int64(350050), bps[0].Position)

	for _, g := range interval.Merge(genes) {
		assert.False(t, g.Contains(bps[0].Position), "breakpoint inside %s", g)
	}
}

func TestPlanChromosome_ClipsStraddlingNRegion(t *testing.T) {
	genes := []interval.Interval{
		iv("chr1", 1000, 2000),
		iv("chr1", 5000, 6000),
	}
	// N-region overlaps the second gene; only 4000..4999 is intergenic.
	nRegions := []interval.Interval{iv("chr1", 4000, 5800)}
	p, err := NewPlanner(5000, genes, nRegions, DefaultMinNRegionLength)
	require.NoError(t, err)

	bps, err := p.PlanChromosome(Chromosome{Name: "chr1", Length: 9000})
	require.NoError(t, err)
	require.Len(t, bps, 1)
	assert.Equal(t, int64(4499), bps[0].Position)
}

func TestPlanChromosome_NoChunkingNeeded(t *testing.T) {
	p := chr1Fixture(t)

	assert.False(t, p.NeedsChunking(Chromosome{Name: "chrM", Length: 16000}))
	bps, err := p.PlanChromosome(Chromosome{Name: "chrM", Length: 16000})
	require.NoError(t, err)
	assert.Empty(t, bps)
}

func TestPlanChromosome_NoAnchor(t *testing.T) {
	p := chr1Fixture(t)

	_, err := p.PlanChromosome(Chromosome{Name: "chr2", Length: 900000})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAnchor)
	assert.Contains(t, err.Error(), "chr2")
}

func TestPlan_InputOrder(t *testing.T) {
	genes := []interval.Interval{
		iv("chrB", 10, 20), iv("chrB", 60, 70),
		iv("chrA", 10, 20), iv("chrA", 60, 70),
	}
	nRegions := []interval.Interval{
		iv("chrA", 30, 50),
		iv("chrB", 25, 45),
	}
	p, err := NewPlanner(60, genes, nRegions, DefaultMinNRegionLength)
	require.NoError(t, err)

	bps, err := p.Plan([]Chromosome{
		{Name: "chrB", Length: 100},
		{Name: "chrM", Length: 50},
		{Name: "chrA", Length: 100},
	})
	require.NoError(t, err)
	require.Len(t, bps, 2)
	assert.Equal(t, Breakpoint{Chrom: "chrB", Position: 35, OffsetFrac: 5.0 / 60}, bps[0])
	assert.Equal(t, Breakpoint{Chrom: "chrA", Position: 40, OffsetFrac: 0}, bps[1])
}

func TestPlan_ErrorNamesChromosome(t *testing.T) {
	genes := []interval.Interval{iv("chrA", 10, 20), iv("chrA", 60, 70)}
	nRegions := []interval.Interval{iv("chrA", 30, 50)}
	p, err := NewPlanner(60, genes, nRegions, DefaultMinNRegionLength)
	require.NoError(t, err)

	_, err = p.Plan([]Chromosome{
		{Name: "chrA", Length: 100},
		{Name: "chrB", Length: 100},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoAnchor)

	var ce *ChromosomeError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "chrB", ce.Chrom)
	assert.True(t, strings.HasPrefix(err.Error(), "chrB: "), err.Error())
}

func TestNewPlanner_InvalidMax(t *testing.T) {
	_, err := NewPlanner(0, nil, nil, DefaultMinNRegionLength)
	assert.Error(t, err)
}

func TestSortedPositions(t *testing.T) {
	bps := []Breakpoint{
		{Chrom: "chr1", Position: 667022},
		{Chrom: "chr1", Position: 333410},
		{Chrom: "chr1", Position: 333410},
		{Chrom: "chr2", Position: 50},
	}
	got := SortedPositions(bps)
	assert.Equal(t, []int64{333410, 667022}, got["chr1"])
	assert.Equal(t, []int64{50}, got["chr2"])
}
