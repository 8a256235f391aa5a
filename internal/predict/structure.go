package predict

import (
	"io"
	"strings"
)

// reprofStateColumn is the three-state secondary structure call (PHEL).
const reprofStateColumn = 2

// ReadStructure parses a RePROF (.reprof) file. Comment lines starting
// with "#" precede the header line starting with "No".
func ReadStructure(r io.Reader) (Annotation, error) {
	var ann Annotation
	err := scanColumns(r, columnFormat{
		skip: func(line string) bool {
			return strings.HasPrefix(line, "#")
		},
		header: func(line string) bool {
			return strings.HasPrefix(line, "No")
		},
		extract: column(reprofStateColumn, &ann),
	})
	return ann, err
}
