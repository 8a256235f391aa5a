package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/isjuao/ppprint/internal/feature"
	"github.com/isjuao/ppprint/internal/output"
	"github.com/isjuao/ppprint/internal/store"
)

func newMergeCmd(a *app) *cobra.Command {
	var (
		dbPath     string
		kindName   string
		baseName   string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "merge [flags] [proteome...]",
		Short: "Merge a stored feature table across proteomes",
		Long: `Concatenate one stored table over all proteomes, or the named ones, with a
leading proteome column.`,
		Example: `  ppprint merge --db proteomes.duckdb --feature topology --base pbased
  ppprint merge --db proteomes.duckdb --feature reprof --base rbased -o structure.tsv human yeast`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := feature.ParseKind(kindName)
			if err != nil {
				return err
			}
			base, err := feature.ParseBase(baseName)
			if err != nil {
				return err
			}

			s, err := openStore(cmd, dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			a.logger.Debug("merging table",
				zap.Stringer("feature", kind),
				zap.String("base", string(base)),
				zap.Strings("proteomes", args))
			return runMerge(s, kind, base, outputFile, args)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB store (config: "+keyStorePath+")")
	cmd.Flags().StringVarP(&kindName, "feature", "f", "", "Feature: topology, binding, disorder, structure (or tmseg, prona, mdisorder, reprof)")
	cmd.Flags().StringVarP(&baseName, "base", "b", string(feature.ProteinBased), "Table base: pbased or rbased")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.MarkFlagRequired("feature")

	return cmd
}

func runMerge(s *store.Store, kind feature.Kind, base feature.Base, outputFile string, proteomes []string) error {
	write := func(tw *output.TabWriter) error {
		if base == feature.RegionBased {
			t, err := s.RegionRows(kind, proteomes...)
			if err != nil {
				return err
			}
			return tw.WriteRegionTable(t)
		}
		t, err := s.ProteinRows(kind, proteomes...)
		if err != nil {
			return err
		}
		return tw.WriteProteinTable(t)
	}

	if outputFile != "" {
		return output.WriteFile(outputFile, true, write)
	}
	return writeTo(os.Stdout, write)
}

func writeTo(w io.Writer, write func(*output.TabWriter) error) error {
	tw := output.NewTabWriter(w).WithProteome()
	if err := write(tw); err != nil {
		return err
	}
	return tw.Flush()
}
