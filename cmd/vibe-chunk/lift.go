package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-chunk/internal/duckdb"
	"github.com/inodb/vibe-chunk/internal/pipeline"
)

func newLiftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lift <chunk>:<start>-<end>...",
		Short: "Translate chunk coordinates back to chromosome coordinates",
		Example: `  vibe-chunk lift 'chr1^c1^o333410:1000-2000'
  vibe-chunk lift --catalog chunks.duckdb 'chr1^c2^o667022:15'`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageErrorf("at least one region is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd, "catalog"); err != nil {
				return err
			}

			var store *duckdb.Store
			if path := viper.GetString("catalog"); path != "" {
				s, err := duckdb.Open(path)
				if err != nil {
					return fmt.Errorf("open catalog: %w", err)
				}
				defer s.Close()
				store = s
			}

			out := cmd.OutOrStdout()
			for _, region := range args {
				iv, err := pipeline.Lift(store, region)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\n", region, iv)
			}
			return nil
		},
	}

	cmd.Flags().String("catalog", "", "DuckDB chunk catalog used to validate chunk bounds")
	return cmd
}
