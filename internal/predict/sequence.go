package predict

import (
	"bufio"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// ReadSequence reads the single protein sequence of a FASTA file.
// Whitespace inside sequence lines is dropped. A file with more than one
// ">" header yields a *SequenceFormatError.
func ReadSequence(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	var seq strings.Builder
	records := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			records++
			continue
		}
		seq.WriteString(strings.Join(strings.Fields(line), ""))
	}
	if err := scanner.Err(); err != nil {
		return "", errors.Wrap(err, "scan fasta file")
	}

	if records > 1 {
		return "", &SequenceFormatError{Records: records}
	}
	return seq.String(), nil
}
