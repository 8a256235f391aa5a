// Package predict parses PredictProtein per-residue output files into
// residue annotation sequences.
package predict

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding/charmap"
)

// Encoding names the codec a file was decoded with.
type Encoding string

const (
	UTF8   Encoding = "utf-8"
	Latin1 Encoding = "latin-1"
)

// Annotation holds one category symbol per residue.
type Annotation []string

// Decode returns data as text. UTF-8 is tried first; invalid input is
// decoded once more as ISO-8859-1.
func Decode(data []byte) (string, Encoding, error) {
	if utf8.Valid(data) {
		return string(data), UTF8, nil
	}

	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", errors.WithSecondaryError(
			&MalformedError{Reason: "text is neither utf-8 nor latin-1"}, err)
	}
	return string(out), Latin1, nil
}

// ParseFile reads and decodes the file at path and hands the text to parse.
// The encoding used is returned so callers can report fallbacks.
func ParseFile[T any](path string, parse func(io.Reader) (T, error)) (T, Encoding, error) {
	var zero T

	data, err := os.ReadFile(path)
	if err != nil {
		return zero, "", errors.Wrapf(err, "read %s", path)
	}

	text, enc, err := Decode(data)
	if err != nil {
		return zero, "", errors.Wrapf(err, "decode %s", path)
	}

	v, err := parse(strings.NewReader(text))
	return v, enc, err
}
