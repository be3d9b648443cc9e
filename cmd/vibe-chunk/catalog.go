package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-chunk/internal/duckdb"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog [chrom...]",
		Short: "List the chromosomes, chunks and inputs recorded in a chunk catalog",
		Long: `With no arguments, prints one line per chromosome followed by the input
files the catalog was built from. With chromosome names, prints the chunks
of each chromosome in order with their range on the original chromosome.`,
		Example: `  vibe-chunk catalog --catalog chunks.duckdb
  vibe-chunk catalog --catalog chunks.duckdb chr1 chr2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd, "catalog"); err != nil {
				return err
			}
			path := viper.GetString("catalog")
			if path == "" {
				return usageErrorf("--catalog is required")
			}

			store, err := duckdb.Open(path)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				for _, chrom := range args {
					entries, err := store.ChunksForChrom(chrom)
					if err != nil {
						return err
					}
					if len(entries) == 0 {
						return fmt.Errorf("%s: not in catalog %s", chrom, path)
					}
					for _, e := range entries {
						fmt.Fprintf(out, "%s\t%s\t%d\t%d\t%d\t%d\n", e.Name, e.Chrom, e.Ordinal, e.Start, e.End, e.Records)
					}
				}
				return nil
			}

			chroms, err := store.Chromosomes()
			if err != nil {
				return err
			}
			for _, c := range chroms {
				fmt.Fprintf(out, "%s\t%d\t%d\t%d\t%d\n", c.Chrom, c.Length, c.Chunks, c.Records, c.Dropped)
			}

			sources, err := store.Sources()
			if err != nil {
				return err
			}
			for _, s := range sources {
				fmt.Fprintf(out, "# %s\t%s\t%d\t%s\n", s.Role, s.Path, s.Size, s.ModTime.UTC().Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().String("catalog", "", "DuckDB chunk catalog to read")
	return cmd
}
