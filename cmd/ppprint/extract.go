package main

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/isjuao/ppprint/internal/feature"
	"github.com/isjuao/ppprint/internal/pipeline"
)

func newExtractCmd(a *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "extract <corpus.json>",
		Short: "Compute feature tables from a corpus file",
		Long:  "Recompute the protein-based and region-based tables from a corpus written by import.",
		Example: `  ppprint extract tables/data.json --out tables/
  ppprint --config strict.yaml extract data.json --out strict/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := featureSettings()
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(settings)
			runner.SetLogger(a.logger)

			tables, paths, err := runner.ExtractCorpus(args[0], outDir)
			if err != nil {
				return err
			}

			data := pterm.TableData{{"Feature", "Proteins", "Regions"}}
			for _, k := range feature.Kinds {
				p, ok := tables.Protein[k]
				if !ok {
					continue
				}
				data = append(data, []string{
					k.String(),
					strconv.Itoa(len(p.Rows)),
					strconv.Itoa(len(tables.Region[k].Rows)),
				})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return err
			}
			pterm.Success.Printf("Wrote %d tables to %s\n", len(paths), outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")

	return cmd
}
