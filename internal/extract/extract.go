// Package extract derives the protein-based and region-based tables of a
// proteome corpus.
package extract

import (
	"go.uber.org/zap"

	"github.com/isjuao/ppprint/internal/feature"
	"github.com/isjuao/ppprint/internal/proteome"
	"github.com/isjuao/ppprint/internal/segment"
)

type plan struct {
	settings feature.Settings
	strategy strategy
}

// Extractor computes feature tables with a fixed set of settings.
// It holds no per-batch state and is safe for concurrent use.
type Extractor struct {
	plans  map[feature.Kind]plan
	logger *zap.Logger
}

// New creates an extractor for the features of table.
func New(table feature.Table) *Extractor {
	e := &Extractor{
		plans:  make(map[feature.Kind]plan, len(table)),
		logger: zap.NewNop(),
	}
	for k, s := range table {
		e.plans[k] = plan{settings: s, strategy: strategyFor(k)}
	}
	return e
}

// SetLogger sets the logger for table summaries.
func (e *Extractor) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Run computes both tables of every configured feature.
func (e *Extractor) Run(c proteome.Corpus) *Tables {
	ix := NewIndex(c)
	t := &Tables{
		Protein: make(map[feature.Kind]*ProteinTable, len(e.plans)),
		Region:  make(map[feature.Kind]*RegionTable, len(e.plans)),
	}
	for _, k := range feature.Kinds {
		if _, ok := e.plans[k]; !ok {
			continue
		}
		t.Protein[k] = e.ProteinBased(ix, k)
		t.Region[k] = e.RegionBased(ix, k)
		e.logger.Debug("extracted feature",
			zap.Stringer("feature", k),
			zap.Int("proteins", len(t.Protein[k].Rows)),
			zap.Int("regions", len(t.Region[k].Rows)))
	}
	return t
}

// survivors applies the minimum length of p to the segments it limits.
func (p plan) survivors(segs []segment.Segment) []segment.Segment {
	var out []segment.Segment
	for _, s := range segs {
		if s.Len() >= p.settings.MinLength || !p.strategy.limits(s.Description) {
			out = append(out, s)
		}
	}
	return out
}

// ProteinBased returns one row per protein of ix for feature k. A feature
// without settings yields nil.
func (e *Extractor) ProteinBased(ix *Index, k feature.Kind) *ProteinTable {
	p, ok := e.plans[k]
	if !ok {
		return nil
	}

	t := &ProteinTable{
		Kind:        k,
		Columns:     p.strategy.columns,
		Orientation: p.strategy.orientation,
		Rows:        make([]ProteinRow, 0, ix.Len()),
	}
	for i := 0; i < ix.Len(); i++ {
		segs, length := p.strategy.prepare(ix.Segments(i, k), ix.Length(i))
		survivors := p.survivors(segs)

		var lengths []int
		sum := 0
		for _, s := range survivors {
			if !feature.Allowed(p.settings.ProteinAllow, s.Description) {
				continue
			}
			lengths = append(lengths, s.Len())
			sum += s.Len()
		}

		row := ProteinRow{
			Protein:       i,
			ID:            ix.ID(i),
			Regions:       len(lengths),
			MedianLength:  median(lengths),
			SumLength:     sum,
			ProteinLength: length,
			Content:       ratio(sum, length),
		}
		if p.strategy.derive != nil {
			row.Extra = make(map[string]float64, len(p.strategy.columns))
			p.strategy.derive(&row, survivors)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// RegionBased returns one row per qualifying region of ix for feature k.
// A feature without settings yields nil.
func (e *Extractor) RegionBased(ix *Index, k feature.Kind) *RegionTable {
	p, ok := e.plans[k]
	if !ok {
		return nil
	}

	t := &RegionTable{Kind: k, Rows: []RegionRow{}}
	for i := 0; i < ix.Len(); i++ {
		segs, length := p.strategy.prepare(ix.Segments(i, k), ix.Length(i))
		for _, s := range p.survivors(segs) {
			if !feature.Allowed(p.settings.RegionAllow, s.Description) {
				continue
			}
			t.Rows = append(t.Rows, RegionRow{
				Protein:       i,
				ID:            ix.ID(i),
				Begin:         s.Begin,
				End:           s.End,
				Length:        s.Len(),
				Description:   s.Description,
				PointBegin:    ratio(s.Begin, length),
				PointEnd:      ratio(s.End, length),
				ProteinLength: length,
				RelLength:     ratio(s.Len(), length),
			})
		}
	}
	return t
}
