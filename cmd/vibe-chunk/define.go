package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-chunk/internal/pipeline"
)

func newDefineCmd() *cobra.Command {
	var cfg pipeline.DefineConfig

	cmd := &cobra.Command{
		Use:   "define",
		Short: "Choose gene-safe breakpoints for oversized chromosomes",
		Long: `Choose breakpoints for every chromosome longer than --max-chunk-size.
Each breakpoint is the midpoint of an N-region lying between two genes,
picked nearest to evenly spaced targets along the chromosome.`,
		Example: `  vibe-chunk define --genome genome.fa --gene-spans spans.tsv \
      --n-regions n_regions.tsv --max-chunk-size 400000000 -o chunks.tsv
  vibe-chunk define --index genome.fa.fai --annotation genes.gtf.gz \
      --n-regions n_regions.tsv.gz --max-chunk-size 400000000 -o chunks.tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd, "max-chunk-size", "min-n-region-length"); err != nil {
				return err
			}
			cfg.MaxChunkSize = viper.GetInt64("max_chunk_size")
			cfg.MinNRegionLength = viper.GetInt64("min_n_region_length")

			switch {
			case cfg.Index == "" && cfg.Genome == "":
				return usageErrorf("one of --index or --genome is required")
			case cfg.GeneSpans == "" && cfg.Annotation == "":
				return usageErrorf("one of --gene-spans or --annotation is required")
			case cfg.NRegions == "":
				return usageErrorf("--n-regions is required")
			case cfg.Output == "":
				return usageErrorf("--out is required")
			case cfg.MaxChunkSize < 1:
				return usageErrorf("--max-chunk-size must be positive")
			}

			res, err := pipeline.Define(cfg, logger)
			if err != nil {
				return err
			}
			logger.Info("define complete",
				zap.Int("chunked_chromosomes", res.Chromosomes),
				zap.Int("breakpoints", len(res.Breakpoints)))
			fmt.Fprintf(os.Stderr, "Wrote %d breakpoints for %d chromosomes to %s\n",
				len(res.Breakpoints), res.Chromosomes, cfg.Output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Index, "index", "", "sequence-length index (.fai)")
	f.StringVar(&cfg.Genome, "genome", "", "genome FASTA, indexed if no .fai exists")
	f.StringVar(&cfg.GeneSpans, "gene-spans", "", "gene span table (gene_id, chrom, start, end, ...)")
	f.StringVar(&cfg.Annotation, "annotation", "", "GTF whose gene features supply the gene spans")
	f.StringVar(&cfg.NRegions, "n-regions", "", "N-region table (chrom, start, end)")
	f.StringVarP(&cfg.Output, "out", "o", "", "breakpoint table to write")
	f.Int64("max-chunk-size", 0, "maximum chunk length in bases")
	f.Int64("min-n-region-length", 11, "shortest N-region usable as an anchor")

	return cmd
}
