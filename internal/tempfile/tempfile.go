// Package tempfile implements the temp-file pool (C3 in spec.md):
// create/truncate/reset/size-check of the bucketed files phase 1 and
// phase 2 read and write through.
package tempfile

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dutov-ivan/extsort/internal/xerrors"
)

// TempFile owns one on-disk file: path, open handle, and the bookkeeping
// spec.md §3/§9 call for (created empty at startup, truncated whenever
// it plays destination, discarded at the very end except for the one
// holding the result).
type TempFile struct {
	path string
	f    *os.File
}

// Open creates path if absent and returns a TempFile positioned at
// offset 0. Creation is idempotent: re-opening an existing path keeps
// its contents, matching spec.md's "created empty at startup" only for
// genuinely new files.
func Open(path string) (*TempFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, xerrors.WrapIO(err, "open "+path)
	}
	return &TempFile{path: path, f: f}, nil
}

// Path returns the file's path.
func (t *TempFile) Path() string { return t.path }

// Handle returns the open *os.File for this temp file, for Reader/Writer
// construction. Callers must not close it directly; use TempFile.Close.
func (t *TempFile) Handle() *os.File { return t.f }

// Clear truncates the file to zero length and resets the cursor,
// matching spec.md's "destination files truncated before a pass begins".
func (t *TempFile) Clear() error {
	if err := t.f.Truncate(0); err != nil {
		return xerrors.WrapIO(err, "truncate "+t.path)
	}
	return t.ResetCursor()
}

// ResetCursor seeks back to the start of the file.
func (t *TempFile) ResetCursor() error {
	if _, err := t.f.Seek(0, io.SeekStart); err != nil {
		return xerrors.WrapIO(err, "seek "+t.path)
	}
	return nil
}

// Size returns the current file size in bytes.
func (t *TempFile) Size() (int64, error) {
	info, err := t.f.Stat()
	if err != nil {
		return 0, xerrors.WrapIO(err, "stat "+t.path)
	}
	return info.Size(), nil
}

// IsEmpty reports whether the file currently holds zero bytes.
func (t *TempFile) IsEmpty() (bool, error) {
	size, err := t.Size()
	if err != nil {
		return false, err
	}
	return size == 0, nil
}

// Close closes the underlying handle. Safe to call more than once.
func (t *TempFile) Close() error {
	if t.f == nil {
		return nil
	}
	err := t.f.Close()
	t.f = nil
	if err != nil {
		return xerrors.WrapIO(err, "close "+t.path)
	}
	return nil
}

// Remove closes and deletes the file from disk.
func (t *TempFile) Remove() error {
	if err := t.Close(); err != nil {
		return err
	}
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		return xerrors.WrapIO(err, "remove "+t.path)
	}
	return nil
}

// Bucket is a fixed-size ordered sequence of TempFiles playing either
// the source or destination role of a pass (spec.md §3). Buckets own
// their files as a value-typed collection; readers/writers borrow a
// file for one pass and must be released before a bucket swap.
type Bucket struct {
	Files []*TempFile
}

// NewBucket creates size files named "<workDir>/<prefix><index>".
func NewBucket(workDir, prefix string, size int) (*Bucket, error) {
	files := make([]*TempFile, size)
	for i := 0; i < size; i++ {
		path := filepath.Join(workDir, prefixedName(prefix, i))
		tf, err := Open(path)
		if err != nil {
			for _, done := range files[:i] {
				done.Close()
			}
			return nil, err
		}
		files[i] = tf
	}
	return &Bucket{Files: files}, nil
}

func prefixedName(prefix string, index int) string {
	return prefix + strconv.Itoa(index)
}

// ClearAll truncates every file in the bucket, e.g. before it plays
// destination in the next pass.
func (b *Bucket) ClearAll() error {
	for _, f := range b.Files {
		if err := f.Clear(); err != nil {
			return err
		}
	}
	return nil
}

// ResetCursors seeks every file back to the start.
func (b *Bucket) ResetCursors() error {
	for _, f := range b.Files {
		if err := f.ResetCursor(); err != nil {
			return err
		}
	}
	return nil
}

// NonEmptyCount returns how many files currently hold data.
func (b *Bucket) NonEmptyCount() (int, error) {
	n := 0
	for _, f := range b.Files {
		empty, err := f.IsEmpty()
		if err != nil {
			return 0, err
		}
		if !empty {
			n++
		}
	}
	return n, nil
}

// Close closes every file in the bucket.
func (b *Bucket) Close() error {
	var first error
	for _, f := range b.Files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
