package predict

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

type topologyState int

const (
	awaitingHeader topologyState = iota
	awaitingSequence
	awaitingAnnotation
	topologyDone
)

// ReadTopology parses a TMSEG (.tmseg) file: comment lines starting with
// "#", a ">" header, the sequence line and an annotation line of the same
// length. If the annotation is missing or its length differs from the
// sequence, the result is empty and a *MalformedError is returned.
func ReadTopology(r io.Reader) (Annotation, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	state := awaitingHeader
	var sequence, annotation string
	lineNumber := 0

	for state != topologyDone && scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, ">") {
			state = awaitingSequence
			sequence = ""
			continue
		}

		switch state {
		case awaitingHeader:
			return nil, &MalformedError{Line: lineNumber, Reason: "data before record header"}
		case awaitingSequence:
			sequence = line
			state = awaitingAnnotation
		case awaitingAnnotation:
			annotation = line
			state = topologyDone
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan tmseg file")
	}

	if state != topologyDone {
		return nil, &MalformedError{Line: lineNumber, Reason: "annotation line not found"}
	}
	if n, m := utf8.RuneCountInString(annotation), utf8.RuneCountInString(sequence); n != m {
		return nil, &MalformedError{
			Line:   lineNumber,
			Reason: fmt.Sprintf("annotation length %d does not match sequence length %d", n, m),
		}
	}

	return strings.Split(annotation, ""), nil
}
