package pipeline

import (
	"fmt"

	"github.com/inodb/vibe-chunk/internal/chunk"
	"github.com/inodb/vibe-chunk/internal/duckdb"
	"github.com/inodb/vibe-chunk/internal/interval"
)

// Lift maps a chunk-local region ("name:start-end" or "name:pos") back to
// chromosome coordinates. With a catalog the chunk must be known and the
// region must lie within it; without one the offset is read from the name.
func Lift(catalog *duckdb.Store, region string) (interval.Interval, error) {
	name, start, end, err := chunk.ParseRegion(region)
	if err != nil {
		return interval.Interval{}, err
	}
	if catalog == nil {
		return chunk.Lift(name, start, end)
	}

	e, ok, err := catalog.LookupChunk(name)
	if err != nil {
		return interval.Interval{}, err
	}
	if !ok {
		return interval.Interval{}, fmt.Errorf("%s: not in catalog %s", name, catalog.Path())
	}

	local, err := interval.New(name, start, end)
	if err != nil {
		return interval.Interval{}, err
	}
	if size := e.End - e.Start + 1; local.End > size {
		return interval.Interval{}, fmt.Errorf("%w: %s ends past chunk %s of length %d",
			interval.ErrInvalidInterval, region, name, size)
	}
	return interval.Interval{
		Chrom: e.Chrom,
		Start: e.Start + start - 1,
		End:   e.Start + end - 1,
	}, nil
}
