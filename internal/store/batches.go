package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"time"

	"github.com/cockroachdb/errors"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/isjuao/ppprint/internal/extract"
	"github.com/isjuao/ppprint/internal/feature"
	"github.com/isjuao/ppprint/internal/proteome"
)

// BatchInfo describes a stored batch.
type BatchInfo struct {
	ID        string
	Proteome  string
	Source    FileFingerprint
	Proteins  int
	CreatedAt time.Time
}

// Batch is the complete result of one imported batch.
type Batch struct {
	BatchInfo
	Tables      *extract.Tables
	Diagnostics []proteome.Diagnostic
}

// ErrBatchExists is returned when a batch ID is written twice.
var ErrBatchExists = errors.New("batch already stored")

// WriteBatch appends all rows of b using the Appender API.
func (s *Store) WriteBatch(b Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow("SELECT count(*) FROM batches WHERE batch_id=?", b.ID).Scan(&n); err != nil {
		return errors.Wrap(err, "check batch")
	}
	if n > 0 {
		return errors.Wrapf(ErrBatchExists, "batch %s", b.ID)
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return errors.Wrap(err, "get connection")
	}
	defer conn.Close()

	created := b.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	// The batch row goes last so a failed write never lists a batch.
	steps := []struct {
		table string
		rows  func(a *goduckdb.Appender) error
	}{
		{"protein_rows", func(a *goduckdb.Appender) error { return appendProteinRows(a, b) }},
		{"protein_row_extras", func(a *goduckdb.Appender) error { return appendExtras(a, b) }},
		{"region_rows", func(a *goduckdb.Appender) error { return appendRegionRows(a, b) }},
		{"diagnostics", func(a *goduckdb.Appender) error { return appendDiagnostics(a, b) }},
		{"batches", func(a *goduckdb.Appender) error {
			return a.AppendRow(b.ID, b.Proteome, b.Source.Path, b.Source.Size,
				formatModTime(b.Source.ModTime), int64(b.Proteins), created)
		}},
	}
	for _, step := range steps {
		if err := withAppender(conn, step.table, step.rows); err != nil {
			return errors.Wrapf(err, "append %s", step.table)
		}
	}
	return nil
}

func withAppender(conn *sql.Conn, table string, fn func(*goduckdb.Appender) error) error {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return errors.Wrap(err, "create appender")
	}

	if err := fn(appender); err != nil {
		appender.Close()
		return err
	}
	return appender.Close()
}

func appendProteinRows(a *goduckdb.Appender, b Batch) error {
	if b.Tables == nil {
		return nil
	}
	for _, k := range feature.Kinds {
		t, ok := b.Tables.Protein[k]
		if !ok {
			continue
		}
		for _, r := range t.Rows {
			if err := a.AppendRow(
				b.ID, b.Proteome, k.String(), int64(r.Protein), r.ID,
				int64(r.Regions), r.MedianLength, int64(r.SumLength),
				int64(r.ProteinLength), r.Content, r.Orientation,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

func appendExtras(a *goduckdb.Appender, b Batch) error {
	if b.Tables == nil {
		return nil
	}
	for _, k := range feature.Kinds {
		t, ok := b.Tables.Protein[k]
		if !ok {
			continue
		}
		for _, r := range t.Rows {
			for _, c := range t.Columns {
				if err := a.AppendRow(b.ID, k.String(), int64(r.Protein), c.Name, r.Extra[c.Name]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func appendRegionRows(a *goduckdb.Appender, b Batch) error {
	if b.Tables == nil {
		return nil
	}
	for _, k := range feature.Kinds {
		t, ok := b.Tables.Region[k]
		if !ok {
			continue
		}
		for i, r := range t.Rows {
			if err := a.AppendRow(
				b.ID, b.Proteome, k.String(), int64(i), int64(r.Protein), r.ID,
				int64(r.Begin), int64(r.End), int64(r.Length), r.Description,
				r.PointBegin, r.PointEnd, int64(r.ProteinLength), r.RelLength,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

func appendDiagnostics(a *goduckdb.Appender, b Batch) error {
	for i, d := range b.Diagnostics {
		if err := a.AppendRow(b.ID, int64(i), d.Protein, d.Text); err != nil {
			return err
		}
	}
	return nil
}

const batchColumns = `batch_id, proteome, source, source_size, source_modtime, proteins, created_at`

func scanBatch(row interface{ Scan(dest ...any) error }) (BatchInfo, error) {
	var info BatchInfo
	var modTime string
	if err := row.Scan(&info.ID, &info.Proteome, &info.Source.Path, &info.Source.Size,
		&modTime, &info.Proteins, &info.CreatedAt); err != nil {
		return BatchInfo{}, err
	}
	info.Source.ModTime = parseModTime(modTime)
	return info, nil
}

// Batches lists the stored batches, oldest first.
func (s *Store) Batches() ([]BatchInfo, error) {
	rows, err := s.db.Query(`SELECT ` + batchColumns + ` FROM batches ORDER BY created_at, batch_id`)
	if err != nil {
		return nil, errors.Wrap(err, "query batches")
	}
	defer rows.Close()

	var out []BatchInfo
	for rows.Next() {
		info, err := scanBatch(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan batch")
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate batches")
	}
	return out, nil
}

// FindBatch returns the batch imported from a source with the same path,
// size and modification time as fp.
func (s *Store) FindBatch(fp FileFingerprint) (BatchInfo, bool, error) {
	row := s.db.QueryRow(`SELECT `+batchColumns+` FROM batches
		WHERE source=? AND source_size=? AND source_modtime=?
		ORDER BY created_at DESC LIMIT 1`,
		fp.Path, fp.Size, formatModTime(fp.ModTime))
	info, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BatchInfo{}, false, nil
	}
	if err != nil {
		return BatchInfo{}, false, errors.Wrap(err, "query batch source")
	}
	return info, true, nil
}

// Diagnostics returns the diagnostics of a batch in recorded order.
func (s *Store) Diagnostics(batchID string) ([]proteome.Diagnostic, error) {
	rows, err := s.db.Query(`SELECT protein, text FROM diagnostics WHERE batch_id=? ORDER BY seq`, batchID)
	if err != nil {
		return nil, errors.Wrap(err, "query diagnostics")
	}
	defer rows.Close()

	var out []proteome.Diagnostic
	for rows.Next() {
		var d proteome.Diagnostic
		if err := rows.Scan(&d.Protein, &d.Text); err != nil {
			return nil, errors.Wrap(err, "scan diagnostic")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate diagnostics")
	}
	return out, nil
}

// DeleteProteome removes every batch of a proteome and returns how many
// batches were removed.
func (s *Store) DeleteProteome(name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow("SELECT count(*) FROM batches WHERE proteome=?", name).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count batches")
	}
	if n == 0 {
		return 0, nil
	}

	const ids = `(SELECT batch_id FROM batches WHERE proteome=?)`
	for _, table := range []string{"protein_rows", "protein_row_extras", "region_rows", "diagnostics", "batches"} {
		if _, err := s.db.Exec(`DELETE FROM `+table+` WHERE batch_id IN `+ids, name); err != nil {
			return 0, errors.Wrapf(err, "delete from %s", table)
		}
	}
	return n, nil
}
