package extract

import (
	"github.com/isjuao/ppprint/internal/feature"
	"github.com/isjuao/ppprint/internal/proteome"
	"github.com/isjuao/ppprint/internal/segment"
)

type indexEntry struct {
	id       string
	length   int
	segments map[feature.Kind][]segment.Segment
}

// Index gives direct access to the segments of every protein and feature
// of a corpus. Proteins are addressed by their position in the corpus.
type Index struct {
	entries []indexEntry
}

// NewIndex builds the protein → feature → segments index of c.
func NewIndex(c proteome.Corpus) *Index {
	ix := &Index{entries: make([]indexEntry, len(c))}
	for i := range c {
		p := &c[i]
		e := indexEntry{
			id:       p.ID,
			length:   p.Length(),
			segments: make(map[feature.Kind][]segment.Segment, len(feature.Kinds)),
		}
		for _, k := range feature.Kinds {
			e.segments[k] = p.Segments(k)
		}
		ix.entries[i] = e
	}
	return ix
}

// Len returns the number of proteins.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// ID returns the identifier of protein i.
func (ix *Index) ID(i int) string {
	return ix.entries[i].id
}

// Length returns the sequence length of protein i.
func (ix *Index) Length(i int) int {
	return ix.entries[i].length
}

// Segments returns the segments of feature k of protein i, nil if none.
func (ix *Index) Segments(i int, k feature.Kind) []segment.Segment {
	return ix.entries[i].segments[k]
}
