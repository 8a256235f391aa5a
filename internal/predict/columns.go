package predict

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// columnFormat describes a whitespace-separated, fixed-width table embedded
// in a prediction file.
type columnFormat struct {
	// header recognizes the header row. Nil means the format has no header
	// and data rows are recognized by isData alone.
	header func(trimmed string) bool
	// skip drops lines before the header.
	skip func(trimmed string) bool
	// isData recognizes data rows. Nil means every line after the header is
	// a data row and the first blank line ends the table.
	isData func(trimmed string) bool
	// width is the expected field count. Zero takes the header's count.
	width int
	// extract consumes the fields of one data row.
	extract func(fields []string) error
}

// scanColumns feeds every data row of r to f.extract. It stops at the first
// row whose shape does not match and reports it as a *MalformedError; rows
// consumed until then stay consumed.
func scanColumns(r io.Reader, f columnFormat) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	width := f.width
	inTable := f.header == nil
	lineNumber, rows := 0, 0

	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if !inTable {
			if f.skip != nil && f.skip(trimmed) {
				continue
			}
			if f.header(trimmed) {
				inTable = true
				if width == 0 {
					width = len(strings.Fields(line))
				}
			}
			continue
		}

		if f.isData != nil {
			if !f.isData(trimmed) {
				continue
			}
		} else if trimmed == "" {
			break
		}

		fields := strings.Fields(line)
		if len(fields) != width {
			return &MalformedError{
				Line:   lineNumber,
				Reason: fmt.Sprintf("expected %d columns, found %d", width, len(fields)),
			}
		}
		if err := f.extract(fields); err != nil {
			return &MalformedError{Line: lineNumber, Reason: err.Error()}
		}
		rows++
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "scan prediction file")
	}
	if !inTable {
		return &MalformedError{Line: lineNumber, Reason: "header line not found"}
	}
	if f.header == nil && rows == 0 {
		return &MalformedError{Line: lineNumber, Reason: "no residue rows found"}
	}
	return nil
}

// column returns an extractor appending field idx of every row to dst.
func column(idx int, dst *Annotation) func([]string) error {
	return func(fields []string) error {
		if idx >= len(fields) {
			return fmt.Errorf("column %d missing", idx)
		}
		*dst = append(*dst, fields[idx])
		return nil
	}
}
