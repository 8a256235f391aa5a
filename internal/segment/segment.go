// Package segment turns per-residue annotation sequences into regions.
package segment

// Run is a maximal stretch of identical residue symbols.
// Begin and End are 1-based and inclusive.
type Run struct {
	Begin  int
	End    int
	Symbol string
}

// Segment is a classified region of a protein.
type Segment struct {
	Begin       int    `json:"begin"`
	End         int    `json:"end"`
	Description string `json:"description"`
}

// Len returns the number of residues covered by the segment.
func (s Segment) Len() int {
	return s.End - s.Begin + 1
}

// Shift moves the segment towards the N-terminus by n residues.
func (s Segment) Shift(n int) Segment {
	s.Begin -= n
	s.End -= n
	return s
}

// Group splits symbols into maximal runs of identical consecutive values.
// The runs cover [1, len(symbols)] without gaps or overlaps.
func Group(symbols []string) []Run {
	if len(symbols) == 0 {
		return nil
	}

	var runs []Run
	begin := 1
	for i := 1; i <= len(symbols); i++ {
		if i < len(symbols) && symbols[i] == symbols[i-1] {
			continue
		}
		runs = append(runs, Run{Begin: begin, End: i, Symbol: symbols[i-1]})
		begin = i + 1
	}
	return runs
}

// Classify maps runs onto descriptions from vocab, keeping order.
// Runs whose symbol is not in vocab are dropped.
func Classify(runs []Run, vocab Vocabulary) []Segment {
	segments := make([]Segment, 0, len(runs))
	for _, r := range runs {
		desc, ok := vocab[r.Symbol]
		if !ok {
			continue
		}
		segments = append(segments, Segment{Begin: r.Begin, End: r.End, Description: desc})
	}
	return segments
}
