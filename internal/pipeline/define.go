package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vibe-chunk/internal/gtf"
	"github.com/inodb/vibe-chunk/internal/interval"
	"github.com/inodb/vibe-chunk/internal/plan"
	"github.com/inodb/vibe-chunk/internal/seqstore"
	"github.com/inodb/vibe-chunk/internal/tables"
)

// DefineConfig holds the inputs of a define run.
type DefineConfig struct {
	Index            string // .fai sequence-length index
	Genome           string // FASTA; indexed on demand when Index is empty
	GeneSpans        string // gene span table
	Annotation       string // GTF used for gene spans when GeneSpans is empty
	NRegions         string
	MaxChunkSize     int64
	MinNRegionLength int64
	Output           string // breakpoint table
}

// DefineResult summarises a define run.
type DefineResult struct {
	Breakpoints []plan.Breakpoint
	Chromosomes int // chromosomes that needed chunking
}

// Define plans breakpoints for every chromosome longer than the chunk size
// limit and writes the breakpoint table. Nothing is written if any
// chromosome cannot be planned.
func Define(cfg DefineConfig, logger *zap.Logger) (*DefineResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Output == "" {
		return nil, errors.New("breakpoint output path is required")
	}
	if cfg.MinNRegionLength <= 0 {
		cfg.MinNRegionLength = plan.DefaultMinNRegionLength
	}

	chroms, err := loadLengths(cfg.Index, cfg.Genome)
	if err != nil {
		return nil, stageErr(StageLoading, "", err)
	}

	genes, err := loadGeneSpans(cfg.GeneSpans, cfg.Annotation)
	if err != nil {
		return nil, stageErr(StageLoading, "", err)
	}

	if cfg.NRegions == "" {
		return nil, stageErr(StageLoading, "", errors.New("N-region table is required"))
	}
	nRegions, err := tables.ReadNRegions(cfg.NRegions)
	if err != nil {
		return nil, stageErr(StageLoading, "", err)
	}

	logger.Info("loaded inputs",
		zap.Int("chromosomes", len(chroms)),
		zap.Int("gene_spans", len(genes)),
		zap.Int("n_regions", len(nRegions)))

	planner, err := plan.NewPlanner(cfg.MaxChunkSize, genes, nRegions, cfg.MinNRegionLength)
	if err != nil {
		return nil, stageErr(StagePlanning, "", err)
	}
	planner.SetLogger(logger.Named("plan"))

	bps, err := planner.Plan(chroms)
	if err != nil {
		var ce *plan.ChromosomeError
		if errors.As(err, &ce) {
			return nil, stageErr(StagePlanning, ce.Chrom, ce.Err)
		}
		return nil, stageErr(StagePlanning, "", err)
	}
	result := &DefineResult{
		Breakpoints: bps,
		Chromosomes: len(plan.SortedPositions(bps)),
	}

	out, err := createPending(cfg.Output)
	if err != nil {
		return nil, stageErr(StageWriting, "", err)
	}
	defer out.abort()

	if err := tables.WriteBreakpoints(out.f, result.Breakpoints); err != nil {
		return nil, stageErr(StageWriting, "", err)
	}
	if err := commitAll(out); err != nil {
		return nil, stageErr(StageWriting, "", err)
	}

	logger.Info("wrote breakpoints",
		zap.String("path", cfg.Output),
		zap.Int("chunked_chromosomes", result.Chromosomes),
		zap.Int("breakpoints", len(result.Breakpoints)))

	return result, nil
}

// loadLengths reads chromosome lengths from an index, or from the index of
// a FASTA file, building it if needed.
func loadLengths(index, genome string) ([]plan.Chromosome, error) {
	if index != "" {
		return tables.ReadLengths(index)
	}
	if genome == "" {
		return nil, errors.New("a sequence index or genome FASTA is required")
	}
	s, err := seqstore.OpenIndexed(genome)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return tables.LengthsFromIndex(s.Index()), nil
}

func loadGeneSpans(spanPath, annotationPath string) ([]interval.Interval, error) {
	switch {
	case spanPath != "":
		return tables.ReadGeneSpans(spanPath)
	case annotationPath != "":
		records, err := gtf.Read(annotationPath)
		if err != nil {
			return nil, err
		}
		spans := gtf.GeneSpans(records)
		if len(spans) == 0 {
			return nil, fmt.Errorf("%s: no gene features found", annotationPath)
		}
		return spans, nil
	default:
		return nil, errors.New("a gene span table or annotation is required")
	}
}
