package store

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/isjuao/ppprint/internal/extract"
	"github.com/isjuao/ppprint/internal/feature"
)

// proteomeFilter returns the SQL condition and arguments restricting rows
// to proteomes, none when proteomes is empty.
func proteomeFilter(column string, proteomes []string) (string, []any) {
	if len(proteomes) == 0 {
		return "", nil
	}
	args := make([]any, len(proteomes))
	for i, p := range proteomes {
		args[i] = p
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(proteomes)), ",")
	return " AND " + column + " IN (" + placeholders + ")", args
}

type rowKey struct {
	batch   string
	protein int
}

// ProteinRows returns the protein-based table of feature k concatenated
// over all stored batches, or those of the given proteomes. Rows are
// ordered by proteome, batch and protein.
func (s *Store) ProteinRows(k feature.Kind, proteomes ...string) (*extract.ProteinTable, error) {
	filter, filterArgs := proteomeFilter("r.proteome", proteomes)
	args := append([]any{k.String()}, filterArgs...)

	extras, err := s.extras(k, proteomes)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT r.batch_id, r.proteome, r.protein, r.id, r.regions,
		r.median_length, r.sum_length, r.protein_length, r.content, r.orientation
		FROM protein_rows r JOIN batches b ON b.batch_id = r.batch_id
		WHERE r.feature=?`+filter+`
		ORDER BY r.proteome, b.created_at, r.batch_id, r.protein`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query protein rows")
	}
	defer rows.Close()

	cols, orientation := extract.Layout(k)
	t := &extract.ProteinTable{Kind: k, Columns: cols, Orientation: orientation, Rows: []extract.ProteinRow{}}
	for rows.Next() {
		var batch string
		var r extract.ProteinRow
		if err := rows.Scan(&batch, &r.Proteome, &r.Protein, &r.ID, &r.Regions,
			&r.MedianLength, &r.SumLength, &r.ProteinLength, &r.Content, &r.Orientation); err != nil {
			return nil, errors.Wrap(err, "scan protein row")
		}
		if len(cols) > 0 {
			r.Extra = extras[rowKey{batch, r.Protein}]
			if r.Extra == nil {
				r.Extra = make(map[string]float64)
			}
		}
		t.Rows = append(t.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate protein rows")
	}
	return t, nil
}

func (s *Store) extras(k feature.Kind, proteomes []string) (map[rowKey]map[string]float64, error) {
	filter, filterArgs := proteomeFilter("b.proteome", proteomes)
	args := append([]any{k.String()}, filterArgs...)

	rows, err := s.db.Query(`SELECT e.batch_id, e.protein, e.name, e.value
		FROM protein_row_extras e JOIN batches b ON b.batch_id = e.batch_id
		WHERE e.feature=?`+filter, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query protein row extras")
	}
	defer rows.Close()

	out := make(map[rowKey]map[string]float64)
	for rows.Next() {
		var key rowKey
		var name string
		var value float64
		if err := rows.Scan(&key.batch, &key.protein, &name, &value); err != nil {
			return nil, errors.Wrap(err, "scan protein row extra")
		}
		if out[key] == nil {
			out[key] = make(map[string]float64)
		}
		out[key][name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate protein row extras")
	}
	return out, nil
}

// RegionRows returns the region-based table of feature k concatenated over
// all stored batches, or those of the given proteomes. Rows are ordered by
// proteome, batch and their position in the batch table.
func (s *Store) RegionRows(k feature.Kind, proteomes ...string) (*extract.RegionTable, error) {
	filter, filterArgs := proteomeFilter("r.proteome", proteomes)
	args := append([]any{k.String()}, filterArgs...)

	rows, err := s.db.Query(`SELECT r.proteome, r.protein, r.id, r.begin_pos, r.end_pos,
		r.length, r.description, r.point_begin, r.point_end, r.protein_length, r.rel_length
		FROM region_rows r JOIN batches b ON b.batch_id = r.batch_id
		WHERE r.feature=?`+filter+`
		ORDER BY r.proteome, b.created_at, r.batch_id, r.seq`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query region rows")
	}
	defer rows.Close()

	t := &extract.RegionTable{Kind: k, Rows: []extract.RegionRow{}}
	for rows.Next() {
		var r extract.RegionRow
		if err := rows.Scan(&r.Proteome, &r.Protein, &r.ID, &r.Begin, &r.End,
			&r.Length, &r.Description, &r.PointBegin, &r.PointEnd, &r.ProteinLength, &r.RelLength); err != nil {
			return nil, errors.Wrap(err, "scan region row")
		}
		t.Rows = append(t.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate region rows")
	}
	return t, nil
}
