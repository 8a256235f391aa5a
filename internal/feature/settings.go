package feature

import (
	"github.com/cockroachdb/errors"

	"github.com/isjuao/ppprint/internal/segment"
)

// Settings are the extraction parameters of one feature.
type Settings struct {
	// MinLength is the shortest region, in residues, that is counted.
	MinLength int
	// ProteinAllow restricts the regions summarized in protein-based rows.
	// Empty means every region is summarized.
	ProteinAllow []string
	// RegionAllow restricts the regions listed in region-based rows.
	RegionAllow []string
}

// Table holds the settings of every feature.
type Table map[Kind]Settings

// DefaultTable returns the standard extraction settings.
func DefaultTable() Table {
	return Table{
		Topology: {
			MinLength:    12,
			ProteinAllow: []string{segment.TransmembraneHelix},
			RegionAllow:  []string{segment.TransmembraneHelix},
		},
		Binding: {
			MinLength:    6,
			ProteinAllow: []string{segment.ProteinBindingHigh},
			RegionAllow:  []string{segment.ProteinBindingHigh},
		},
		Disorder: {
			MinLength: 30,
		},
		Structure: {
			MinLength:    4,
			ProteinAllow: []string{segment.Helix},
			RegionAllow:  []string{segment.Helix, segment.Strand},
		},
	}
}

// WithMinLengths returns a copy of t with the minimum lengths replaced for
// the features named in overrides (by feature name or file extension).
func (t Table) WithMinLengths(overrides map[string]int) (Table, error) {
	out := make(Table, len(t))
	for k, s := range t {
		out[k] = s
	}
	for name, n := range overrides {
		k, err := ParseKind(name)
		if err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, errors.Newf("minimum length for %s must be positive, got %d", k, n)
		}
		s := out[k]
		s.MinLength = n
		out[k] = s
	}
	return out, nil
}

// Allowed reports whether desc passes allow. An empty list allows all.
func Allowed(allow []string, desc string) bool {
	if len(allow) == 0 {
		return true
	}
	for _, a := range allow {
		if a == desc {
			return true
		}
	}
	return false
}
