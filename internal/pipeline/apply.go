package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/vibe-chunk/internal/chunk"
	"github.com/inodb/vibe-chunk/internal/duckdb"
	"github.com/inodb/vibe-chunk/internal/gtf"
	"github.com/inodb/vibe-chunk/internal/plan"
	"github.com/inodb/vibe-chunk/internal/seqstore"
	"github.com/inodb/vibe-chunk/internal/tables"
)

// Retriever kinds accepted by ApplyConfig.
const (
	RetrieverFAI      = "fai"
	RetrieverSamtools = "samtools"
)

// ApplyConfig holds the inputs of an apply run.
type ApplyConfig struct {
	Genome      string // FASTA
	Index       string // .fai; defaults to <Genome>.fai
	Annotation  string
	Breakpoints string
	OutPrefix   string
	Retriever   string // RetrieverFAI or RetrieverSamtools
	Samtools    string // samtools binary
	Workers     int
	FASTAWidth  int
	Catalog     string // optional DuckDB path
}

// FASTAPath returns the chunked genome output path.
func (c ApplyConfig) FASTAPath() string {
	return c.OutPrefix + ".chunked.genome.fa"
}

// GTFPath returns the chunked annotation output path.
func (c ApplyConfig) GTFPath() string {
	return c.OutPrefix + ".chunked.gtf"
}

// ApplySummary reports what an apply run emitted.
type ApplySummary struct {
	Chromosomes int
	Chunked     int
	Chunks      int
	Records     int
	Dropped     int // records spanning a breakpoint
	Unplaced    int // records on chromosomes missing from the index
}

// Apply cuts every chromosome at its breakpoints and writes the chunked
// genome and annotation. Outputs are moved into place only after every
// chromosome has been built.
func Apply(ctx context.Context, cfg ApplyConfig, logger *zap.Logger) (*ApplySummary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Genome == "" || cfg.Annotation == "" || cfg.Breakpoints == "" || cfg.OutPrefix == "" {
		return nil, errors.New("genome, annotation, breakpoints and output prefix are required")
	}

	retriever, chroms, closeFn, err := openRetriever(cfg)
	if err != nil {
		return nil, stageErr(StageLoading, "", err)
	}
	defer closeFn()

	bps, err := tables.ReadBreakpoints(cfg.Breakpoints)
	if err != nil {
		return nil, stageErr(StageLoading, "", err)
	}
	positions := plan.SortedPositions(bps)

	known := make(map[string]bool, len(chroms))
	for _, c := range chroms {
		known[c.Name] = true
	}
	for chrom := range positions {
		if !known[chrom] {
			return nil, stageErr(StageLoading, chrom,
				fmt.Errorf("%w: breakpoint on chromosome missing from the sequence index", tables.ErrMalformed))
		}
	}

	records, err := gtf.Read(cfg.Annotation)
	if err != nil {
		return nil, stageErr(StageLoading, "", err)
	}
	byChrom := gtf.GroupByChrom(records)

	summary := &ApplySummary{Chromosomes: len(chroms)}
	for chrom, rs := range byChrom {
		if !known[chrom] {
			logger.Warn("annotation chromosome missing from the sequence index",
				zap.String("chrom", chrom),
				zap.Int("records", len(rs)))
			summary.Unplaced += len(rs)
		}
	}

	fastaOut, err := createPending(cfg.FASTAPath())
	if err != nil {
		return nil, stageErr(StageWriting, "", err)
	}
	defer fastaOut.abort()
	gtfOut, err := createPending(cfg.GTFPath())
	if err != nil {
		return nil, stageErr(StageWriting, "", err)
	}
	defer gtfOut.abort()

	fastaBuf := bufio.NewWriterSize(fastaOut.f, 1<<20)
	fastaW := seqstore.NewFASTAWriter(fastaBuf, cfg.FASTAWidth)
	gtfW := gtf.NewWriter(gtfOut.f)

	builder := chunk.NewBuilder(retriever)
	builder.SetLogger(logger.Named("chunk"))

	items := make([]chunk.WorkItem, len(chroms))
	for i, c := range chroms {
		items[i] = chunk.WorkItem{
			Chrom:       c,
			Breakpoints: positions[c.Name],
			Records:     byChrom[c.Name],
		}
	}

	var results []*chunk.Result
	err = builder.BuildOrdered(ctx, items, cfg.Workers, func(r chunk.WorkResult) error {
		if r.Err != nil {
			return stageErr(StageBuilding, r.Chrom.Name, r.Err)
		}
		for i := range r.Result.Chunks {
			c := &r.Result.Chunks[i]
			if err := fastaW.Write(c.Name, c.Seq); err != nil {
				return stageErr(StageWriting, r.Chrom.Name, fmt.Errorf("write sequence %s: %w", c.Name, err))
			}
			if err := gtfW.WriteAll(c.Records); err != nil {
				return stageErr(StageWriting, r.Chrom.Name, fmt.Errorf("write annotation %s: %w", c.Name, err))
			}
			c.Seq = nil
		}

		summary.Chunks += len(r.Result.Chunks)
		summary.Records += r.Result.RecordCount()
		summary.Dropped += len(r.Result.Dropped)
		if len(positions[r.Chrom.Name]) > 0 {
			summary.Chunked++
		}
		results = append(results, r.Result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := fastaBuf.Flush(); err != nil {
		return nil, stageErr(StageWriting, "", fmt.Errorf("flush sequences: %w", err))
	}
	if err := gtfW.Flush(); err != nil {
		return nil, stageErr(StageWriting, "", fmt.Errorf("flush annotation: %w", err))
	}

	commit := func() error { return commitAll(fastaOut, gtfOut) }
	if cfg.Catalog != "" {
		if err := writeCatalog(cfg, results, commit); err != nil {
			return nil, stageErr(StageWriting, "", err)
		}
		logger.Info("updated chunk catalog", zap.String("path", cfg.Catalog))
	} else if err := commit(); err != nil {
		return nil, stageErr(StageWriting, "", err)
	}

	logger.Info("wrote chunked genome",
		zap.String("fasta", cfg.FASTAPath()),
		zap.String("gtf", cfg.GTFPath()),
		zap.Int("chromosomes", summary.Chromosomes),
		zap.Int("chunked", summary.Chunked),
		zap.Int("chunks", summary.Chunks),
		zap.Int("records", summary.Records),
		zap.Int("dropped", summary.Dropped))

	return summary, nil
}

// openRetriever returns the sequence source and the chromosome lengths in
// FASTA order.
func openRetriever(cfg ApplyConfig) (seqstore.Retriever, []plan.Chromosome, func(), error) {
	indexPath := cfg.Index
	if indexPath == "" {
		indexPath = seqstore.IndexPath(cfg.Genome)
	}

	switch cfg.Retriever {
	case "", RetrieverFAI:
		s, err := seqstore.OpenIndexed(cfg.Genome)
		if err != nil {
			return nil, nil, nil, err
		}
		chroms := tables.LengthsFromIndex(s.Index())
		if cfg.Index != "" {
			chroms, err = tables.ReadLengths(cfg.Index)
			if err != nil {
				s.Close()
				return nil, nil, nil, err
			}
		}
		return s, chroms, func() { s.Close() }, nil
	case RetrieverSamtools:
		chroms, err := tables.ReadLengths(indexPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return seqstore.NewSamtools(cfg.Samtools, cfg.Genome), chroms, func() {}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown retriever %q (want %s or %s)", cfg.Retriever, RetrieverFAI, RetrieverSamtools)
	}
}

// writeCatalog records the run in the catalog. commit renames the outputs
// into place inside the catalog transaction, so the catalog only describes
// outputs that exist.
func writeCatalog(cfg ApplyConfig, results []*chunk.Result, commit func() error) error {
	var sources []duckdb.FileFingerprint
	for _, src := range []struct{ role, path string }{
		{"genome", cfg.Genome},
		{"annotation", cfg.Annotation},
		{"breakpoints", cfg.Breakpoints},
	} {
		if src.path == "-" {
			continue
		}
		fp, err := duckdb.StatFile(src.role, src.path)
		if err != nil {
			return fmt.Errorf("fingerprint %s: %w", src.role, err)
		}
		sources = append(sources, fp)
	}

	store, err := duckdb.Open(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	if err := store.WriteRun(results, sources, commit); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
