package predict

import (
	"io"
	"strings"
)

// mdisorderCallColumn is the MetaDisorder two-state call (MD2st).
const mdisorderCallColumn = 10

// ReadDisorder parses a MetaDisorder (.mdisorder) file.
// The table starts at the line beginning with "Number"; every following
// row must have as many columns as that header.
func ReadDisorder(r io.Reader) (Annotation, error) {
	var ann Annotation
	err := scanColumns(r, columnFormat{
		header: func(line string) bool {
			return strings.HasPrefix(line, "Number")
		},
		extract: column(mdisorderCallColumn, &ann),
	})
	return ann, err
}
