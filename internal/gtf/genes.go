package gtf

import "github.com/inodb/vibe-chunk/internal/interval"

// GeneSpans returns the extent of every "gene" feature. Used when no
// separate gene-span table is supplied.
func GeneSpans(records []Record) []interval.Interval {
	var spans []interval.Interval
	for _, r := range records {
		if r.Feature != "gene" {
			continue
		}
		spans = append(spans, r.Interval())
	}
	return spans
}
