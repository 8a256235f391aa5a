// Package feature defines the prediction features of a proteome and the
// extraction settings resolved for each of them.
package feature

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/isjuao/ppprint/internal/segment"
)

// Kind identifies a prediction feature.
type Kind int

const (
	Topology Kind = iota
	Binding
	Disorder
	Structure
)

// Kinds lists all features in corpus order.
var Kinds = []Kind{Topology, Binding, Disorder, Structure}

var kindNames = [...]string{"topology", "binding", "disorder", "structure"}

// extensions are the PredictProtein file extensions of each feature.
var extensions = [...]string{"tmseg", "prona", "mdisorder", "reprof"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Extension returns the file extension of the feature's prediction file.
func (k Kind) Extension() string {
	if k < 0 || int(k) >= len(extensions) {
		return ""
	}
	return extensions[k]
}

// Vocabulary returns the symbol classification of the feature.
func (k Kind) Vocabulary() segment.Vocabulary {
	switch k {
	case Topology:
		return segment.TopologyVocabulary
	case Binding:
		return segment.BindingVocabulary
	case Disorder:
		return segment.DisorderVocabulary
	case Structure:
		return segment.StructureVocabulary
	}
	return nil
}

// ParseKind resolves a feature by name or by file extension.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if s == k.String() || s == k.Extension() {
			return k, nil
		}
	}
	return 0, errors.WithHint(
		errors.Newf("unknown feature %q", s),
		"use one of: topology, binding, disorder, structure")
}

// Base selects one of the two derived table families.
type Base string

const (
	ProteinBased Base = "pbased"
	RegionBased  Base = "rbased"
)

// ParseBase resolves a table family name.
func ParseBase(s string) (Base, error) {
	switch Base(strings.ToLower(s)) {
	case ProteinBased:
		return ProteinBased, nil
	case RegionBased:
		return RegionBased, nil
	}
	return "", errors.Newf("unknown table base %q (want pbased or rbased)", s)
}

// TableKey returns the "<feature> <base>" key of an output table.
func TableKey(k Kind, b Base) string {
	return k.String() + " " + string(b)
}
