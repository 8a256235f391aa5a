package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isjuao/ppprint/internal/extract"
	"github.com/isjuao/ppprint/internal/feature"
	"github.com/isjuao/ppprint/internal/proteome"
	"github.com/isjuao/ppprint/internal/segment"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func makeBatch(id, name string, created time.Time, corpus proteome.Corpus) Batch {
	return Batch{
		BatchInfo: BatchInfo{
			ID:        id,
			Proteome:  name,
			Source:    FileFingerprint{Path: "/data/" + name + ".tar.gz", Size: 1024, ModTime: created.Add(-time.Hour)},
			Proteins:  len(corpus),
			CreatedAt: created,
		},
		Tables: extract.New(feature.DefaultTable()).Run(corpus),
		Diagnostics: []proteome.Diagnostic{
			{Protein: "P1", Text: "Could not FIND P1.prona in job_1."},
			{Protein: "P1", Text: "Could not PARSE P1.reprof in job_1."},
		},
	}
}

func corpusOf(ids ...string) proteome.Corpus {
	var c proteome.Corpus
	for _, id := range ids {
		c = append(c, proteome.Protein{
			ID:       id,
			Sequence: strings.Repeat("A", 70),
			Topology: []segment.Segment{
				{Begin: 1, End: 6, Description: segment.SignalPeptide},
				{Begin: 7, End: 26, Description: segment.TransmembraneHelix},
			},
			Disorder: []segment.Segment{{Begin: 31, End: 70, Description: segment.DisorderedRegion}},
		})
	}
	return c
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Empty(t, s.Path())
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ppprint.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteBatch_RoundTrip(t *testing.T) {
	s := openInMemory(t)
	now := time.Now().UTC().Truncate(time.Second)
	b := makeBatch("b1", "human", now, corpusOf("P1", "P2"))
	require.NoError(t, s.WriteBatch(b))

	topo, err := s.ProteinRows(feature.Topology)
	require.NoError(t, err)
	require.Len(t, topo.Rows, 2)
	assert.True(t, topo.Orientation)

	want := b.Tables.Protein[feature.Topology].Rows[0]
	want.Proteome = "human"
	assert.Equal(t, want, topo.Rows[0])
	assert.Equal(t, segment.OrientationMembrane, topo.Rows[0].Orientation)
	assert.Equal(t, 64, topo.Rows[0].ProteinLength)

	regions, err := s.RegionRows(feature.Disorder)
	require.NoError(t, err)
	require.Len(t, regions.Rows, 2)
	wantRegion := b.Tables.Region[feature.Disorder].Rows[1]
	wantRegion.Proteome = "human"
	assert.Equal(t, wantRegion, regions.Rows[1])

	diags, err := s.Diagnostics("b1")
	require.NoError(t, err)
	assert.Equal(t, b.Diagnostics, diags)

	batches, err := s.Batches()
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "b1", batches[0].ID)
	assert.Equal(t, "human", batches[0].Proteome)
	assert.Equal(t, 2, batches[0].Proteins)
	assert.True(t, b.Source.ModTime.Equal(batches[0].Source.ModTime))
}

func TestWriteBatch_Duplicate(t *testing.T) {
	s := openInMemory(t)
	b := makeBatch("b1", "human", time.Now(), corpusOf("P1"))
	require.NoError(t, s.WriteBatch(b))

	err := s.WriteBatch(b)
	assert.True(t, errors.Is(err, ErrBatchExists))
}

func TestMerge_ConcatenatesByProteome(t *testing.T) {
	s := openInMemory(t)
	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.WriteBatch(makeBatch("b-yeast", "yeast", base, corpusOf("Y1"))))
	require.NoError(t, s.WriteBatch(makeBatch("b-human-1", "human", base.Add(time.Minute), corpusOf("H1", "H2"))))
	require.NoError(t, s.WriteBatch(makeBatch("b-human-2", "human", base.Add(2*time.Minute), corpusOf("H3"))))

	all, err := s.ProteinRows(feature.Disorder)
	require.NoError(t, err)
	var got []string
	for _, r := range all.Rows {
		got = append(got, r.Proteome+"/"+r.ID)
	}
	assert.Equal(t, []string{"human/H1", "human/H2", "human/H3", "yeast/Y1"}, got)

	yeast, err := s.ProteinRows(feature.Disorder, "yeast")
	require.NoError(t, err)
	require.Len(t, yeast.Rows, 1)
	assert.Equal(t, "Y1", yeast.Rows[0].ID)

	regions, err := s.RegionRows(feature.Disorder, "human", "yeast")
	require.NoError(t, err)
	assert.Len(t, regions.Rows, 4)

	none, err := s.RegionRows(feature.Disorder, "mouse")
	require.NoError(t, err)
	assert.Empty(t, none.Rows)
}

func TestMerge_Extras(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteBatch(makeBatch("b1", "human", time.Now(), corpusOf("P1"))))

	table, err := s.ProteinRows(feature.Structure, "human")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, map[string]float64{"H": 0, "E": 0, "O": 0}, table.Rows[0].Extra)

	disorder, err := s.ProteinRows(feature.Disorder, "human")
	require.NoError(t, err)
	assert.Nil(t, disorder.Rows[0].Extra)
}

func TestFindBatch(t *testing.T) {
	s := openInMemory(t)
	now := time.Now()
	b := makeBatch("b1", "human", now, corpusOf("P1"))
	require.NoError(t, s.WriteBatch(b))

	info, ok, err := s.FindBatch(b.Source)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b1", info.ID)

	changed := b.Source
	changed.Size++
	_, ok, err = s.FindBatch(changed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteProteome(t *testing.T) {
	s := openInMemory(t)
	now := time.Now()
	require.NoError(t, s.WriteBatch(makeBatch("b1", "human", now, corpusOf("P1"))))
	require.NoError(t, s.WriteBatch(makeBatch("b2", "yeast", now.Add(time.Second), corpusOf("Y1"))))

	n, err := s.DeleteProteome("human")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := s.ProteinRows(feature.Topology)
	require.NoError(t, err)
	require.Len(t, rows.Rows, 1)
	assert.Equal(t, "yeast", rows.Rows[0].Proteome)

	diags, err := s.Diagnostics("b1")
	require.NoError(t, err)
	assert.Empty(t, diags)

	n, err = s.DeleteProteome("human")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.tar.gz")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))

	fp, err := StatFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, fp.Path)
	assert.Equal(t, int64(4), fp.Size)
	assert.False(t, fp.ModTime.IsZero())

	_, err = StatFile(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
