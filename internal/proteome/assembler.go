package proteome

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/isjuao/ppprint/internal/feature"
	"github.com/isjuao/ppprint/internal/predict"
	"github.com/isjuao/ppprint/internal/segment"
)

// SequenceExtension is the extension of the file that establishes a protein.
const SequenceExtension = "fasta"

// BatchEmptyError is returned when a batch holds no protein at all.
type BatchEmptyError struct {
	Root string
}

func (e *BatchEmptyError) Error() string {
	return fmt.Sprintf("no proteins found in %s", e.Root)
}

type channelReader func(io.Reader) ([]predict.Annotation, error)

func single(read func(io.Reader) (predict.Annotation, error)) channelReader {
	return func(r io.Reader) ([]predict.Annotation, error) {
		ann, err := read(r)
		return []predict.Annotation{ann}, err
	}
}

// readers maps every feature to the parser of its prediction file.
var readers = map[feature.Kind]channelReader{
	feature.Topology:  single(predict.ReadTopology),
	feature.Binding:   predict.ReadBinding,
	feature.Disorder:  single(predict.ReadDisorder),
	feature.Structure: single(predict.ReadStructure),
}

// Assembler reads the proteins of an unpacked import batch.
type Assembler struct {
	logger *zap.Logger
}

// NewAssembler creates an assembler.
func NewAssembler() *Assembler {
	return &Assembler{logger: zap.NewNop()}
}

// SetLogger sets the logger for progress and encoding messages.
func (a *Assembler) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Assemble reads every job folder below root. A protein is every
// <id>.fasta file of a job folder; its feature files are <id>.<ext> next to
// it. Unreadable job folders and missing or unreadable feature files are
// recorded in diags; the latter leave that feature empty. A *BatchEmptyError is returned when no protein is
// found.
func (a *Assembler) Assemble(root string, diags *Diagnostics) (Corpus, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrap(err, "read batch directory")
	}

	var corpus Corpus
	for _, e := range entries {
		if !e.IsDir() && e.Type()&fs.ModeSymlink == 0 {
			continue
		}
		proteins, err := a.assembleJob(filepath.Join(root, e.Name()), diags)
		if err != nil {
			a.logger.Debug("job folder unreadable", zap.String("job", e.Name()), zap.Error(err))
			diags.Addf("", "Could not READ job folder %s.", e.Name())
			continue
		}
		corpus = append(corpus, proteins...)
	}

	if len(corpus) == 0 {
		return nil, errors.WithHint(&BatchEmptyError{Root: root},
			"the archive must contain job folders holding one <protein>.fasta file per protein")
	}

	a.logger.Info("assembled proteome",
		zap.String("root", root),
		zap.Int("proteins", len(corpus)),
		zap.Int("diagnostics", diags.Len()))
	return corpus, nil
}

// assembleJob reads the proteins of one job folder in file name order.
func (a *Assembler) assembleJob(dir string, diags *Diagnostics) (Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read job folder %s", filepath.Base(dir))
	}

	var proteins Corpus
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != "."+SequenceExtension {
			continue
		}
		id := strings.TrimSuffix(e.Name(), "."+SequenceExtension)
		proteins = append(proteins, a.assembleProtein(dir, id, diags))
	}
	return proteins, nil
}

// assembleProtein reads the sequence and every feature of one protein.
func (a *Assembler) assembleProtein(dir, id string, diags *Diagnostics) Protein {
	job := filepath.Base(dir)
	p := Protein{ID: id}

	seqFile := id + "." + SequenceExtension
	seq, enc, err := predict.ParseFile(filepath.Join(dir, seqFile), predict.ReadSequence)
	a.logEncoding(dir, seqFile, enc)
	if err != nil {
		a.logger.Debug("sequence unreadable", zap.String("file", seqFile), zap.Error(err))
		diags.Addf(id, "Could not PARSE %s in %s.", seqFile, job)
	} else {
		p.Sequence = seq
	}

	for _, k := range feature.Kinds {
		p.setSegments(k, a.readFeature(dir, id, k, diags))
	}
	return p
}

// readFeature parses, segments and classifies one feature file.
func (a *Assembler) readFeature(dir, id string, k feature.Kind, diags *Diagnostics) []segment.Segment {
	job := filepath.Base(dir)
	name := id + "." + k.Extension()
	path := filepath.Join(dir, name)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			diags.Addf(id, "Could not FIND %s in %s.", name, job)
		} else {
			diags.Addf(id, "Could not PARSE %s in %s.", name, job)
		}
		return nil
	}

	channels, enc, err := predict.ParseFile(path, readers[k])
	a.logEncoding(dir, name, enc)
	if err != nil {
		a.logger.Debug("feature file unreadable", zap.String("file", name), zap.Error(err))
		diags.Addf(id, "Could not PARSE %s in %s.", name, job)

		// A malformed file still contributes the residues read before the break.
		var malformed *predict.MalformedError
		if !errors.As(err, &malformed) {
			return nil
		}
	}

	var runs []segment.Run
	for _, ch := range channels {
		runs = append(runs, segment.Group(ch)...)
	}
	return segment.Classify(runs, k.Vocabulary())
}

func (a *Assembler) logEncoding(dir, name string, enc predict.Encoding) {
	if enc == predict.Latin1 {
		a.logger.Warn("file encoding is not utf-8, decoded as latin-1",
			zap.String("job", filepath.Base(dir)),
			zap.String("file", name))
	}
}
