// Package proteome assembles per-protein prediction files of an import
// batch into the intermediate segment corpus.
package proteome

import (
	"encoding/json"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/isjuao/ppprint/internal/feature"
	"github.com/isjuao/ppprint/internal/segment"
)

// Protein is the record of one protein: its sequence and the classified
// segments of every feature.
type Protein struct {
	ID        string            `json:"id,omitempty"`
	Sequence  string            `json:"sequence"`
	Topology  []segment.Segment `json:"topology"`
	Binding   []segment.Segment `json:"binding"`
	Disorder  []segment.Segment `json:"disorder"`
	Structure []segment.Segment `json:"structure"`
}

// Length returns the number of residues of the protein.
func (p *Protein) Length() int {
	return len(p.Sequence)
}

// Segments returns the segments of feature k.
func (p *Protein) Segments(k feature.Kind) []segment.Segment {
	switch k {
	case feature.Topology:
		return p.Topology
	case feature.Binding:
		return p.Binding
	case feature.Disorder:
		return p.Disorder
	case feature.Structure:
		return p.Structure
	}
	return nil
}

func (p *Protein) setSegments(k feature.Kind, segs []segment.Segment) {
	if segs == nil {
		segs = []segment.Segment{}
	}
	switch k {
	case feature.Topology:
		p.Topology = segs
	case feature.Binding:
		p.Binding = segs
	case feature.Disorder:
		p.Disorder = segs
	case feature.Structure:
		p.Structure = segs
	}
}

// Corpus is the ordered list of protein records of one batch.
type Corpus []Protein

// WriteJSON encodes the corpus as a JSON array.
func (c Corpus) WriteJSON(w io.Writer) error {
	if c == nil {
		c = Corpus{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "encode corpus")
	}
	return nil
}

// WriteFile writes the corpus JSON to path.
func (c Corpus) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create corpus file")
	}
	if err := c.WriteJSON(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close corpus file")
	}
	return nil
}

// ReadCorpus decodes a corpus JSON array.
func ReadCorpus(r io.Reader) (Corpus, error) {
	var c Corpus
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, errors.Wrap(err, "decode corpus")
	}
	for i := range c {
		for _, k := range feature.Kinds {
			c[i].setSegments(k, c[i].Segments(k))
		}
	}
	return c, nil
}

// ReadCorpusFile reads the corpus JSON at path.
func ReadCorpusFile(path string) (Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open corpus file")
	}
	defer f.Close()
	return ReadCorpus(f)
}
