package main

import (
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/isjuao/ppprint/internal/store"
)

// openStore opens the store named by --db or the store.path setting.
func openStore(cmd *cobra.Command, dbPath string) (*store.Store, error) {
	if !cmd.Flags().Changed("db") {
		dbPath = viper.GetString(keyStorePath)
	}
	if dbPath == "" {
		return nil, errors.WithHint(errors.New("no store selected"),
			"pass --db or set "+keyStorePath+" with: ppprint config set "+keyStorePath+" <path>")
	}
	return store.Open(dbPath)
}

func newBatchesCmd(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "batches",
		Short: "List stored batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			batches, err := s.Batches()
			if err != nil {
				return err
			}
			if len(batches) == 0 {
				pterm.Info.Println("No batches stored.")
				return nil
			}

			data := pterm.TableData{{"Batch", "Proteome", "Proteins", "Source", "Imported"}}
			for _, b := range batches {
				data = append(data, []string{
					b.ID,
					b.Proteome,
					strconv.Itoa(b.Proteins),
					b.Source.Path,
					b.CreatedAt.Local().Format(time.DateTime),
				})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB store (config: "+keyStorePath+")")

	return cmd
}

func newDiagnosticsCmd(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "diagnostics <batch-id>",
		Short: "Show the diagnostics recorded for a stored batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			diags, err := s.Diagnostics(args[0])
			if err != nil {
				return err
			}
			if len(diags) == 0 {
				pterm.Info.Printf("No diagnostics for batch %s.\n", args[0])
				return nil
			}
			for _, d := range diags {
				if d.Protein == "" {
					pterm.Warning.Println(d.Text)
					continue
				}
				pterm.Warning.Printf("%s: %s\n", d.Protein, d.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB store (config: "+keyStorePath+")")

	return cmd
}
