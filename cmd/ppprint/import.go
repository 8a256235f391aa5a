package main

import (
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/isjuao/ppprint/internal/pipeline"
	"github.com/isjuao/ppprint/internal/store"
)

type importOptions struct {
	proteome     string
	outDir       string
	dbPath       string
	workers      int
	skipExisting bool
	replace      bool
}

func newImportCmd(a *app) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import [flags] <batch>...",
		Short: "Import PredictProtein batches",
		Long: `Import one or more PredictProtein batches. A batch is an archive
(.tar, .tar.gz, .tgz, .tar.bz2, .tar.xz, .zip) or a directory holding job
folders with one <protein>.fasta file and its prediction files per protein.`,
		Example: `  ppprint import --out tables/ human.tar.gz
  ppprint import --db proteomes.duckdb --workers 4 human.tar.gz yeast.tar.gz
  ppprint import --db proteomes.duckdb --proteome human part1.zip part2.zip`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("db") {
				opts.dbPath = viper.GetString(keyStorePath)
			}
			if !cmd.Flags().Changed("workers") && viper.IsSet(keyImportWorkers) {
				opts.workers = viper.GetInt(keyImportWorkers)
			}
			return runImport(a, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.proteome, "proteome", "p", "", "Proteome name (default: batch file name)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Write corpus and tables into this directory")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "Append results to this DuckDB store (config: "+keyStorePath+")")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "Batches processed concurrently (config: "+keyImportWorkers+")")
	cmd.Flags().BoolVar(&opts.skipExisting, "skip-existing", false, "Skip batches whose source is already stored unchanged")
	cmd.Flags().BoolVar(&opts.replace, "replace", false, "Remove stored batches of the proteome before importing")

	return cmd
}

func runImport(a *app, opts importOptions, inputs []string) error {
	if opts.outDir == "" && opts.dbPath == "" {
		return errors.WithHint(errors.New("no output selected"),
			"use --out to write table files or --db to append to a store")
	}

	settings, err := featureSettings()
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(settings)
	runner.SetLogger(a.logger)

	var s *store.Store
	if opts.dbPath != "" {
		s, err = store.Open(opts.dbPath)
		if err != nil {
			return err
		}
		defer s.Close()
		runner.SetStore(s)
	}

	jobs, err := planJobs(a.logger, s, opts, inputs)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		pterm.Info.Println("Nothing to import.")
		return nil
	}

	results := runner.RunAll(jobs, opts.workers)
	return reportImport(results)
}

// planJobs turns inputs into jobs, dropping unchanged sources when asked to.
func planJobs(logger *zap.Logger, s *store.Store, opts importOptions, inputs []string) ([]pipeline.Job, error) {
	if opts.replace && s != nil {
		names := make(map[string]bool)
		for _, in := range inputs {
			names[proteomeOf(opts, in)] = true
		}
		for name := range names {
			n, err := s.DeleteProteome(name)
			if err != nil {
				return nil, err
			}
			if n > 0 {
				logger.Info("removed stored batches", zap.String("proteome", name), zap.Int("batches", n))
			}
		}
	}

	var jobs []pipeline.Job
	for _, in := range inputs {
		if opts.skipExisting && s != nil {
			fp, err := store.StatFile(in)
			if err == nil {
				info, ok, err := s.FindBatch(fp)
				if err != nil {
					return nil, err
				}
				if ok {
					pterm.Info.Printf("Skipping %s: already stored as batch %s\n", in, info.ID)
					continue
				}
			}
		}

		job := pipeline.Job{Input: in, Proteome: opts.proteome}
		if opts.outDir != "" {
			job.OutDir = opts.outDir
			if len(inputs) > 1 {
				job.OutDir = filepath.Join(opts.outDir, pipeline.ProteomeName(in))
			}
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func proteomeOf(opts importOptions, input string) string {
	if opts.proteome != "" {
		return opts.proteome
	}
	return pipeline.ProteomeName(input)
}

func reportImport(results []pipeline.WorkResult) error {
	data := pterm.TableData{{"Batch", "Proteome", "Proteins", "Diagnostics", "Status"}}
	failed := 0
	for _, wr := range results {
		if wr.Err != nil {
			failed++
			data = append(data, []string{wr.Job.Input, "-", "-", "-", pterm.Red("failed")})
			continue
		}
		r := wr.Result
		data = append(data, []string{
			wr.Job.Input,
			r.Proteome,
			strconv.Itoa(len(r.Corpus)),
			strconv.Itoa(len(r.Diagnostics)),
			pterm.Green("ok"),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	for _, wr := range results {
		if wr.Err != nil {
			printError(wr.Err)
			continue
		}
		for _, d := range wr.Result.Diagnostics {
			pterm.Warning.Printf("%s: %s\n", wr.Result.Proteome, d.Text)
		}
		for _, path := range wr.Result.Written {
			pterm.Debug.Println("wrote " + path)
		}
	}

	if failed > 0 {
		return errors.Newf("%d of %d batches failed", failed, len(results))
	}
	pterm.Success.Printf("Imported %d batches\n", len(results))
	return nil
}
