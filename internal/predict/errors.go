package predict

import "fmt"

// MalformedError reports a prediction file whose layout broke before the
// end of its data section. Parsers that return it also return whatever
// residues were read before the break.
type MalformedError struct {
	Line   int
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("malformed prediction file: %s", e.Reason)
	}
	return fmt.Sprintf("malformed prediction file at line %d: %s", e.Line, e.Reason)
}

// SequenceFormatError is returned when a single-sequence FASTA file holds
// more than one record.
type SequenceFormatError struct {
	Records int
}

func (e *SequenceFormatError) Error() string {
	return fmt.Sprintf("fasta file contains %d sequences, expected 1", e.Records)
}
