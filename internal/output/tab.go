// Package output writes feature tables as tab-delimited files.
package output

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/isjuao/ppprint/internal/extract"
	"github.com/isjuao/ppprint/internal/feature"
)

// Common protein-based columns.
var proteinColumns = []string{
	"protein",
	"id",
	"number of regions",
	"median length",
	"sum region lengths",
	"protein length",
	"region content",
}

// Region-based columns.
var regionColumns = []string{
	"protein",
	"id",
	"begin",
	"end",
	"reg length",
	"description",
	"point begin",
	"point end",
	"protein length",
	"rel reg length",
}

// TabWriter writes feature tables in tab-delimited format.
type TabWriter struct {
	w        *bufio.Writer
	proteome bool
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w)}
}

// WithProteome adds a leading proteome column, used for merged tables.
func (tw *TabWriter) WithProteome() *TabWriter {
	tw.proteome = true
	return tw
}

func (tw *TabWriter) writeLine(proteome string, values []string) error {
	if tw.proteome {
		values = append([]string{proteome}, values...)
	}
	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// ProteinHeader returns the header of a protein-based table.
func ProteinHeader(t *extract.ProteinTable) []string {
	header := append([]string{}, proteinColumns...)
	if t.Orientation {
		header = append(header, "orientation")
	}
	for _, c := range t.Columns {
		header = append(header, c.Name)
	}
	return header
}

// WriteProteinTable writes the header and every row of t.
func (tw *TabWriter) WriteProteinTable(t *extract.ProteinTable) error {
	if err := tw.writeLine("proteome", ProteinHeader(t)); err != nil {
		return err
	}
	for _, row := range t.Rows {
		values := []string{
			strconv.Itoa(row.Protein),
			row.ID,
			strconv.Itoa(row.Regions),
			formatFloat(row.MedianLength),
			strconv.Itoa(row.SumLength),
			strconv.Itoa(row.ProteinLength),
			formatFloat(row.Content),
		}
		if t.Orientation {
			values = append(values, row.Orientation)
		}
		for _, c := range t.Columns {
			values = append(values, formatFloat(row.Extra[c.Name]))
		}
		if err := tw.writeLine(row.Proteome, values); err != nil {
			return err
		}
	}
	return nil
}

// WriteRegionTable writes the header and every row of t.
func (tw *TabWriter) WriteRegionTable(t *extract.RegionTable) error {
	if err := tw.writeLine("proteome", regionColumns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		values := []string{
			strconv.Itoa(row.Protein),
			row.ID,
			strconv.Itoa(row.Begin),
			strconv.Itoa(row.End),
			strconv.Itoa(row.Length),
			row.Description,
			formatFloat(row.PointBegin),
			formatFloat(row.PointEnd),
			strconv.Itoa(row.ProteinLength),
			formatFloat(row.RelLength),
		}
		if err := tw.writeLine(row.Proteome, values); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FileName returns the file name of the table with the given key,
// e.g. "topology_pbased.tsv".
func FileName(k feature.Kind, b feature.Base) string {
	return strings.ReplaceAll(feature.TableKey(k, b), " ", "_") + ".tsv"
}

// WriteFile creates path and writes a table into it through fn.
func WriteFile(path string, proteome bool, fn func(*TabWriter) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create table file")
	}
	defer f.Close()

	tw := NewTabWriter(f)
	if proteome {
		tw.WithProteome()
	}
	if err := fn(tw); err != nil {
		return errors.Wrapf(err, "write %s", filepath.Base(path))
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrapf(err, "write %s", filepath.Base(path))
	}
	return f.Close()
}

// WriteAll writes every table of tables into dir, one file per table key.
// It returns the written paths.
func WriteAll(dir string, tables *extract.Tables) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}

	var paths []string
	for _, k := range feature.Kinds {
		t, ok := tables.Protein[k]
		if !ok {
			continue
		}
		path := filepath.Join(dir, FileName(k, feature.ProteinBased))
		if err := WriteFile(path, false, func(tw *TabWriter) error { return tw.WriteProteinTable(t) }); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	for _, k := range feature.Kinds {
		t, ok := tables.Region[k]
		if !ok {
			continue
		}
		path := filepath.Join(dir, FileName(k, feature.RegionBased))
		if err := WriteFile(path, false, func(tw *TabWriter) error { return tw.WriteRegionTable(t) }); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
