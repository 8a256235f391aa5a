package extract

import (
	"github.com/isjuao/ppprint/internal/feature"
	"github.com/isjuao/ppprint/internal/segment"
)

// strategy holds the feature-specific steps of both extractors.
type strategy struct {
	// prepare adjusts a protein's segments and length before filtering.
	prepare func(segs []segment.Segment, length int) ([]segment.Segment, int)
	// limited names the descriptions the minimum length applies to.
	// Nil applies it to every segment.
	limited map[string]bool
	// columns are the extra protein-based columns filled by derive.
	columns     []Column
	orientation bool
	// derive fills the extra columns from the minlength survivors.
	derive func(row *ProteinRow, survivors []segment.Segment)
}

// limits reports whether the minimum length applies to desc.
func (s strategy) limits(desc string) bool {
	return s.limited == nil || s.limited[desc]
}

func descriptions(descs ...string) map[string]bool {
	set := make(map[string]bool, len(descs))
	for _, d := range descs {
		set[d] = true
	}
	return set
}

func identity(segs []segment.Segment, length int) ([]segment.Segment, int) {
	return segs, length
}

// keep returns a prepare step that drops segments outside descs.
func keep(descs ...string) func([]segment.Segment, int) ([]segment.Segment, int) {
	set := descriptions(descs...)
	return func(segs []segment.Segment, length int) ([]segment.Segment, int) {
		var out []segment.Segment
		for _, s := range segs {
			if set[s.Description] {
				out = append(out, s)
			}
		}
		return out, length
	}
}

// Layout returns the extra columns of the protein-based table of feature k
// and whether its rows carry an orientation.
func Layout(k feature.Kind) ([]Column, bool) {
	s := strategyFor(k)
	return s.columns, s.orientation
}

// strategyFor resolves the strategy of feature k.
func strategyFor(k feature.Kind) strategy {
	switch k {
	case feature.Topology:
		return strategy{
			prepare: shiftSignalPeptide,
			limited: descriptions(segment.SignalPeptide, segment.TransmembraneHelix),
			columns: []Column{
				{Name: "I", Description: "Cytoplasmic content"},
				{Name: "M", Description: "Membrane content (signal peptide and helices)"},
				{Name: "O", Description: "Extracellular content"},
			},
			orientation: true,
			derive:      deriveTopology,
		}
	case feature.Binding:
		return strategy{
			prepare: keep(segment.ProteinBindingHigh, segment.DNABindingHigh, segment.RNABindingHigh),
			columns: []Column{
				{Name: "PBR content", Description: "Protein binding residue content"},
				{Name: "DBR content", Description: "DNA binding residue content"},
				{Name: "RBR content", Description: "RNA binding residue content"},
				{Name: "num PBR", Description: "Protein binding regions"},
				{Name: "num DBR", Description: "DNA binding regions"},
				{Name: "num RBR", Description: "RNA binding regions"},
			},
			derive: deriveBinding,
		}
	case feature.Structure:
		return strategy{
			prepare: keep(segment.Helix, segment.Strand, segment.Other),
			columns: []Column{
				{Name: "H", Description: "Helix content"},
				{Name: "E", Description: "Strand content"},
				{Name: "O", Description: "Other content"},
			},
			derive: deriveStructure,
		}
	default:
		return strategy{prepare: identity}
	}
}

// shiftSignalPeptide removes the first signal peptide from the coordinate
// frame: every segment moves left by its length and so does the protein
// length.
func shiftSignalPeptide(segs []segment.Segment, length int) ([]segment.Segment, int) {
	shift := 0
	for _, s := range segs {
		if s.Description == segment.SignalPeptide {
			shift = s.Len()
			break
		}
	}
	if shift == 0 {
		return segs, length
	}

	out := make([]segment.Segment, len(segs))
	for i, s := range segs {
		out[i] = s.Shift(shift)
	}
	return out, length - shift
}

func sumByDescription(segs []segment.Segment) map[string]int {
	sums := make(map[string]int)
	for _, s := range segs {
		sums[s.Description] += s.Len()
	}
	return sums
}

func countByDescription(segs []segment.Segment) map[string]int {
	counts := make(map[string]int)
	for _, s := range segs {
		counts[s.Description]++
	}
	return counts
}

func deriveTopology(row *ProteinRow, survivors []segment.Segment) {
	sums := sumByDescription(survivors)
	row.Extra["I"] = ratio(sums[segment.Cytoplasmic], row.ProteinLength)
	row.Extra["M"] = ratio(sums[segment.SignalPeptide]+sums[segment.TransmembraneHelix], row.ProteinLength)
	row.Extra["O"] = ratio(sums[segment.Extracellular], row.ProteinLength)
	row.Orientation = orientation(survivors)
}

// orientation describes what precedes the first helix: "Membrane" when
// the helix opens the protein, the preceding segment's description
// otherwise, and "" without a helix.
func orientation(segs []segment.Segment) string {
	for i, s := range segs {
		if s.Description != segment.TransmembraneHelix {
			continue
		}
		if i == 0 {
			return segment.OrientationMembrane
		}
		return segs[i-1].Description
	}
	return ""
}

func deriveBinding(row *ProteinRow, survivors []segment.Segment) {
	sums := sumByDescription(survivors)
	counts := countByDescription(survivors)
	row.Extra["PBR content"] = ratio(sums[segment.ProteinBindingHigh], row.ProteinLength)
	row.Extra["DBR content"] = ratio(sums[segment.DNABindingHigh], row.ProteinLength)
	row.Extra["RBR content"] = ratio(sums[segment.RNABindingHigh], row.ProteinLength)
	row.Extra["num PBR"] = float64(counts[segment.ProteinBindingHigh])
	row.Extra["num DBR"] = float64(counts[segment.DNABindingHigh])
	row.Extra["num RBR"] = float64(counts[segment.RNABindingHigh])
}

func deriveStructure(row *ProteinRow, survivors []segment.Segment) {
	sums := sumByDescription(survivors)
	row.Extra["H"] = ratio(sums[segment.Helix], row.ProteinLength)
	row.Extra["E"] = ratio(sums[segment.Strand], row.ProteinLength)
	row.Extra["O"] = ratio(sums[segment.Other], row.ProteinLength)
}
