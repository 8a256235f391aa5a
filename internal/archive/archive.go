// Package archive unpacks import batches.
//
// A batch is either a directory of job folders or an archive holding them.
// Archives are unpacked with hashicorp/go-getter's decompressors:
//   - tar, tar.gz / tgz, tar.bz2 / tbz2, tar.xz / txz, tar.zst / tzst
//   - zip
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"
)

// Error is returned when a batch archive cannot be unpacked.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("unpack %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// formats are the decompressor keys that unpack into a directory.
var formats = []string{
	"tar", "tar.gz", "tgz", "tar.bz2", "tbz2", "tar.xz", "txz", "tar.zst", "tzst", "zip",
}

func init() {
	// Longest suffix first.
	sort.Slice(formats, func(i, j int) bool { return len(formats[i]) > len(formats[j]) })
}

// Format returns the archive format of path from its extension.
func Format(path string) (string, bool) {
	name := strings.ToLower(filepath.Base(path))
	for _, f := range formats {
		if strings.HasSuffix(name, "."+f) {
			return f, true
		}
	}
	return "", false
}

// Extract unpacks the archive src into the directory dst.
func Extract(src, dst string) error {
	format, ok := Format(src)
	if !ok {
		return errors.WithHint(&Error{Path: src, Err: errors.New("unsupported archive format")},
			"supported formats: "+strings.Join(formats, ", "))
	}

	d, ok := getter.Decompressors[format]
	if !ok {
		return &Error{Path: src, Err: errors.Newf("no decompressor for %s", format)}
	}
	if err := d.Decompress(dst, src, true, 0); err != nil {
		return &Error{Path: src, Err: err}
	}
	return nil
}

// Source is an unpacked batch directory.
type Source struct {
	// Dir holds the job folders of the batch.
	Dir string
	// Input is the path the source was opened from.
	Input string
	// Unpacked reports whether Dir is a temporary extraction.
	Unpacked bool
	cleanup  func()
}

// Cleanup removes any temporary extraction. Safe to call multiple times.
func (s *Source) Cleanup() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// Open resolves input to a batch directory. A directory is used as is; an
// archive is unpacked into a temporary directory that Cleanup removes.
func Open(input string, logger *zap.Logger) (*Source, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, errors.Wrap(err, "open batch")
	}
	if info.IsDir() {
		return &Source{Dir: input, Input: input}, nil
	}

	tempDir, err := os.MkdirTemp("", "ppprint-batch-*")
	if err != nil {
		return nil, errors.Wrap(err, "create temp directory")
	}

	logger.Info("unpacking batch", zap.String("archive", input), zap.String("destination", tempDir))
	if err := Extract(input, tempDir); err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}

	return &Source{
		Dir:      tempDir,
		Input:    input,
		Unpacked: true,
		cleanup: func() {
			logger.Debug("removing unpacked batch", zap.String("path", tempDir))
			os.RemoveAll(tempDir)
		},
	}, nil
}
