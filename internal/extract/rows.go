package extract

import (
	"sort"

	"github.com/isjuao/ppprint/internal/feature"
)

// Column describes a feature-specific column of a protein-based table.
type Column struct {
	Name        string
	Description string
}

// ProteinRow summarizes the regions of one feature of one protein.
type ProteinRow struct {
	// Proteome is set on rows read back from a result store.
	Proteome      string
	Protein       int
	ID            string
	Regions       int
	MedianLength  float64
	SumLength     int
	ProteinLength int
	Content       float64
	// Orientation is set for topology rows only.
	Orientation string
	// Extra holds the values of the table's feature-specific columns.
	Extra map[string]float64
}

// RegionRow describes one region of one protein.
type RegionRow struct {
	Proteome      string
	Protein       int
	ID            string
	Begin         int
	End           int
	Length        int
	Description   string
	PointBegin    float64
	PointEnd      float64
	ProteinLength int
	RelLength     float64
}

// ProteinTable is the protein-based table of one feature.
type ProteinTable struct {
	Kind feature.Kind
	// Columns lists the feature-specific columns present in Extra.
	Columns []Column
	// Orientation reports whether rows carry an orientation.
	Orientation bool
	Rows        []ProteinRow
}

// RegionTable is the region-based table of one feature.
type RegionTable struct {
	Kind feature.Kind
	Rows []RegionRow
}

// Tables holds both table families of every feature of a batch.
type Tables struct {
	Protein map[feature.Kind]*ProteinTable
	Region  map[feature.Kind]*RegionTable
}

// Keys returns the "<feature> <base>" keys of all tables, protein-based
// tables first, features in corpus order.
func (t *Tables) Keys() []string {
	var keys []string
	for _, k := range feature.Kinds {
		if _, ok := t.Protein[k]; ok {
			keys = append(keys, feature.TableKey(k, feature.ProteinBased))
		}
	}
	for _, k := range feature.Kinds {
		if _, ok := t.Region[k]; ok {
			keys = append(keys, feature.TableKey(k, feature.RegionBased))
		}
	}
	return keys
}

// median returns the median of values, 0 for none.
func median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// ratio divides n by length; a non-positive length yields 0.
func ratio(n, length int) float64 {
	if length <= 0 {
		return 0
	}
	return float64(n) / float64(length)
}
