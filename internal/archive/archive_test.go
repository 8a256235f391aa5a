package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func findTestData(t *testing.T, name string) string {
	t.Helper()

	paths := []string{
		filepath.Join("testdata", name),
		filepath.Join("..", "..", "testdata", name),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	t.Fatalf("Test data not found: %s", name)
	return ""
}

func TestFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"batch.tar", "tar", true},
		{"batch.tar.gz", "tar.gz", true},
		{"/x/y/Batch.TGZ", "tgz", true},
		{"batch.tar.bz2", "tar.bz2", true},
		{"batch.tar.xz", "tar.xz", true},
		{"batch.zip", "zip", true},
		{"batch.gz", "", false},
		{"thisisnotatarfile.txt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := Format(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_TarGz(t *testing.T) {
	dst := t.TempDir()
	require.NoError(t, Extract(findTestData(t, "archives/tinyproteome.tar.gz"), dst))

	for _, name := range []string{"P62524.fasta", "P62524.tmseg", "Q8XA85.reprof"} {
		_, err := os.Stat(filepath.Join(dst, "job_1", name))
		assert.NoError(t, err, name)
	}
}

func TestExtract_Zip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "batch.zip")
	f, err := os.Create(src)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("job_1/P1.fasta")
	require.NoError(t, err)
	_, err = w.Write([]byte(">P1\nMKR\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	dst := t.TempDir()
	require.NoError(t, Extract(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "job_1", "P1.fasta"))
	require.NoError(t, err)
	assert.Equal(t, ">P1\nMKR\n", string(data))
}

func TestExtract_NotAnArchive(t *testing.T) {
	err := Extract(findTestData(t, "archives/thisisnotatarfile.txt"), t.TempDir())
	require.Error(t, err)

	var archiveErr *Error
	require.True(t, errors.As(err, &archiveErr))
	assert.Contains(t, archiveErr.Error(), "thisisnotatarfile.txt")
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestExtract_Corrupt(t *testing.T) {
	err := Extract(findTestData(t, "archives/broken.tar.gz"), t.TempDir())

	var archiveErr *Error
	require.True(t, errors.As(err, &archiveErr))
	assert.Error(t, archiveErr.Unwrap())
}

func TestOpen_Directory(t *testing.T) {
	dir := findTestData(t, "tinyproteome")
	src, err := Open(dir, zap.NewNop())
	require.NoError(t, err)
	defer src.Cleanup()

	assert.Equal(t, dir, src.Dir)
	assert.False(t, src.Unpacked)
}

func TestOpen_ArchiveCleanup(t *testing.T) {
	src, err := Open(findTestData(t, "archives/tinyproteome.tar.gz"), zap.NewNop())
	require.NoError(t, err)
	assert.True(t, src.Unpacked)

	_, err = os.Stat(filepath.Join(src.Dir, "job_1", "P62524.fasta"))
	require.NoError(t, err)

	src.Cleanup()
	src.Cleanup()
	_, err = os.Stat(src.Dir)
	assert.True(t, os.IsNotExist(err))
}

func TestOpen_Invalid(t *testing.T) {
	_, err := Open(findTestData(t, "archives/thisisnotatarfile.txt"), zap.NewNop())
	var archiveErr *Error
	assert.True(t, errors.As(err, &archiveErr))

	_, err = Open(filepath.Join(t.TempDir(), "absent.tar.gz"), zap.NewNop())
	assert.Error(t, err)
}
