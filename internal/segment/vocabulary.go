package segment

// Vocabulary maps raw residue symbols to region descriptions.
type Vocabulary map[string]string

// Region descriptions.
const (
	SignalPeptide       = "Signal Peptide"
	TransmembraneHelix  = "Transmembrane Helix"
	Cytoplasmic         = "Cytoplasmic"
	Extracellular       = "Extracellular"
	DisorderedRegion    = "Disordered Region"
	Helix               = "Helix"
	Strand              = "Strand"
	Other               = "Other"
	ProteinBindingLow   = "Protein Binding (RI: 00-33)"
	ProteinBindingMid   = "Protein Binding (RI: 34-66)"
	ProteinBindingHigh  = "Protein Binding (RI: 67-100)"
	DNABindingLow       = "DNA Binding (RI: 00-33)"
	DNABindingMid       = "DNA Binding (RI: 34-66)"
	DNABindingHigh      = "DNA Binding (RI: 67-100)"
	RNABindingLow       = "RNA Binding (RI: 00-33)"
	RNABindingMid       = "RNA Binding (RI: 34-66)"
	RNABindingHigh      = "RNA Binding (RI: 67-100)"
	OrientationMembrane = "Membrane"
)

// TopologyVocabulary classifies TMSEG annotation symbols.
var TopologyVocabulary = Vocabulary{
	"S": SignalPeptide,
	"H": TransmembraneHelix,
	"1": Cytoplasmic,
	"2": Extracellular,
}

// DisorderVocabulary classifies MetaDisorder two-state calls.
var DisorderVocabulary = Vocabulary{
	"D": DisorderedRegion,
}

// StructureVocabulary classifies three-state secondary structure calls.
var StructureVocabulary = Vocabulary{
	"H": Helix,
	"E": Strand,
	"L": Other,
}

// BindingVocabulary classifies bucketed binding-site symbols.
// Undetermined ("X") and unbound (".") residues are not mapped.
var BindingVocabulary = Vocabulary{
	"P0": ProteinBindingLow,
	"P1": ProteinBindingMid,
	"P2": ProteinBindingHigh,
	"D0": DNABindingLow,
	"D1": DNABindingMid,
	"D2": DNABindingHigh,
	"R0": RNABindingLow,
	"R1": RNABindingMid,
	"R2": RNABindingHigh,
}

// Descriptions returns the set of descriptions the vocabulary can produce.
func (v Vocabulary) Descriptions() map[string]bool {
	out := make(map[string]bool, len(v))
	for _, d := range v {
		out[d] = true
	}
	return out
}
