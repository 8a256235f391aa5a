// Package pipeline runs import batches from raw prediction files to
// feature tables.
package pipeline

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/isjuao/ppprint/internal/archive"
	"github.com/isjuao/ppprint/internal/extract"
	"github.com/isjuao/ppprint/internal/feature"
	"github.com/isjuao/ppprint/internal/output"
	"github.com/isjuao/ppprint/internal/proteome"
	"github.com/isjuao/ppprint/internal/store"
)

// CorpusFileName is the name of the corpus written into a job's output
// directory.
const CorpusFileName = "data.json"

// Job describes one import batch.
type Job struct {
	// Input is a batch archive or an unpacked batch directory.
	Input string
	// Proteome names the batch; derived from Input when empty.
	Proteome string
	// OutDir receives the corpus and the table files when set.
	OutDir string
}

// Result is the outcome of one batch.
type Result struct {
	BatchID     uuid.UUID
	Proteome    string
	Source      store.FileFingerprint
	Corpus      proteome.Corpus
	Tables      *extract.Tables
	Diagnostics []proteome.Diagnostic
	// Written lists the files written into the job's OutDir.
	Written  []string
	Started  time.Time
	Finished time.Time
}

// Batch converts r into its stored form.
func (r *Result) Batch() store.Batch {
	return store.Batch{
		BatchInfo: store.BatchInfo{
			ID:        r.BatchID.String(),
			Proteome:  r.Proteome,
			Source:    r.Source,
			Proteins:  len(r.Corpus),
			CreatedAt: r.Finished,
		},
		Tables:      r.Tables,
		Diagnostics: r.Diagnostics,
	}
}

// Runner runs batches with a fixed feature configuration.
// Batches share no mutable state, so one runner may run many at once.
type Runner struct {
	extractor *extract.Extractor
	store     *store.Store
	logger    *zap.Logger
}

// NewRunner creates a runner extracting with settings.
func NewRunner(settings feature.Table) *Runner {
	return &Runner{
		extractor: extract.New(settings),
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger passed down to every batch.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
	r.extractor.SetLogger(l)
}

// SetStore makes the runner append every finished batch to s.
func (r *Runner) SetStore(s *store.Store) {
	r.store = s
}

// ProteomeName derives a proteome name from a batch path: the base name
// without its archive extension.
func ProteomeName(input string) string {
	name := filepath.Base(filepath.Clean(input))
	if format, ok := archive.Format(name); ok {
		name = name[:len(name)-len(format)-1]
	}
	return strings.TrimSpace(name)
}

// Run processes one batch start to finish.
func (r *Runner) Run(job Job) (*Result, error) {
	res := &Result{
		BatchID:  uuid.New(),
		Proteome: job.Proteome,
		Started:  time.Now(),
	}
	if res.Proteome == "" {
		res.Proteome = ProteomeName(job.Input)
	}
	logger := r.logger.With(
		zap.String("batch", res.BatchID.String()),
		zap.String("proteome", res.Proteome))

	src, err := archive.Open(job.Input, logger)
	if err != nil {
		return nil, err
	}
	defer src.Cleanup()

	if res.Source, err = store.StatFile(job.Input); err != nil {
		return nil, errors.Wrap(err, "stat batch")
	}

	diags := proteome.NewDiagnostics()
	diags.SetLogger(logger)
	asm := proteome.NewAssembler()
	asm.SetLogger(logger)

	res.Corpus, err = asm.Assemble(src.Dir, diags)
	if err != nil {
		return nil, errors.Wrapf(err, "assemble %s", res.Proteome)
	}
	res.Diagnostics = diags.Messages()
	res.Tables = r.extractor.Run(res.Corpus)

	if job.OutDir != "" {
		if err := r.writeOutputs(job.OutDir, res); err != nil {
			return nil, err
		}
	}

	res.Finished = time.Now()
	if r.store != nil {
		if err := r.store.WriteBatch(res.Batch()); err != nil {
			return nil, errors.Wrap(err, "store batch")
		}
	}

	logger.Info("batch done",
		zap.Int("proteins", len(res.Corpus)),
		zap.Int("diagnostics", len(res.Diagnostics)),
		zap.Duration("elapsed", res.Finished.Sub(res.Started)))
	return res, nil
}

func (r *Runner) writeOutputs(dir string, res *Result) error {
	paths, err := output.WriteAll(dir, res.Tables)
	if err != nil {
		return errors.Wrap(err, "write tables")
	}

	corpusPath := filepath.Join(dir, CorpusFileName)
	if err := res.Corpus.WriteFile(corpusPath); err != nil {
		return errors.Wrap(err, "write corpus")
	}
	res.Written = append([]string{corpusPath}, paths...)
	return nil
}

// ExtractCorpus computes and writes the tables of a previously written
// corpus file into dir.
func (r *Runner) ExtractCorpus(path, dir string) (*extract.Tables, []string, error) {
	corpus, err := proteome.ReadCorpusFile(path)
	if err != nil {
		return nil, nil, err
	}
	tables := r.extractor.Run(corpus)
	paths, err := output.WriteAll(dir, tables)
	if err != nil {
		return nil, nil, errors.Wrap(err, "write tables")
	}
	return tables, paths, nil
}
