package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-chunk/internal/pipeline"
)

func newApplyCmd() *cobra.Command {
	var cfg pipeline.ApplyConfig

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Cut the genome and annotation at the chosen breakpoints",
		Long: `Cut each chromosome at its breakpoints, writing <prefix>.chunked.genome.fa
and <prefix>.chunked.gtf. Chunks are named <chrom>^c<index>^o<start> and
annotation coordinates are shifted to be chunk-relative. Records spanning
a breakpoint are dropped. Chromosomes without breakpoints pass through
unchanged. Nothing is written unless every chromosome succeeds.`,
		Example: `  vibe-chunk apply --genome genome.fa --annotation genes.gtf \
      --breakpoints chunks.tsv -o ctat
  vibe-chunk apply --genome genome.fa --annotation genes.gtf \
      --breakpoints chunks.tsv -o ctat --retriever samtools --catalog chunks.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd, "workers", "retriever", "samtools", "fasta-width", "catalog"); err != nil {
				return err
			}
			cfg.Workers = viper.GetInt("workers")
			cfg.Retriever = viper.GetString("retriever")
			cfg.Samtools = viper.GetString("samtools")
			cfg.FASTAWidth = viper.GetInt("fasta_width")
			cfg.Catalog = viper.GetString("catalog")

			switch {
			case cfg.Genome == "":
				return usageErrorf("--genome is required")
			case cfg.Annotation == "":
				return usageErrorf("--annotation is required")
			case cfg.Breakpoints == "":
				return usageErrorf("--breakpoints is required")
			case cfg.OutPrefix == "":
				return usageErrorf("--out-prefix is required")
			case cfg.Retriever != pipeline.RetrieverFAI && cfg.Retriever != pipeline.RetrieverSamtools:
				return usageErrorf("--retriever must be %s or %s", pipeline.RetrieverFAI, pipeline.RetrieverSamtools)
			}

			summary, err := pipeline.Apply(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Wrote %d sequences (%d chromosomes chunked) to %s\n",
				summary.Chunks, summary.Chunked, cfg.FASTAPath())
			fmt.Fprintf(os.Stderr, "Wrote %d annotation records to %s\n", summary.Records, cfg.GTFPath())
			if summary.Dropped > 0 {
				fmt.Fprintf(os.Stderr, "Dropped %d records spanning a breakpoint\n", summary.Dropped)
			}
			if summary.Unplaced > 0 {
				fmt.Fprintf(os.Stderr, "Dropped %d records on chromosomes missing from the genome\n", summary.Unplaced)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Genome, "genome", "", "genome FASTA")
	f.StringVar(&cfg.Index, "index", "", "sequence-length index (default <genome>.fai)")
	f.StringVar(&cfg.Annotation, "annotation", "", "GTF annotation (plain or gzipped)")
	f.StringVar(&cfg.Breakpoints, "breakpoints", "", "breakpoint table written by define")
	f.StringVarP(&cfg.OutPrefix, "out-prefix", "o", "", "output prefix")
	f.Int("workers", 0, "chromosomes built in parallel (0 = number of CPUs)")
	f.String("retriever", pipeline.RetrieverFAI, "sequence source: fai (in-process) or samtools")
	f.String("samtools", "samtools", "samtools binary used by --retriever samtools")
	f.Int("fasta-width", 60, "FASTA line width")
	f.String("catalog", "", "DuckDB chunk catalog to update")

	return cmd
}
