// Package lineio implements the buffered line-read/line-write
// collaborators (C1/C2 in spec.md), plus an optional mmap-backed
// reader (spec.md §9's "memory-mapped reading" design note).
package lineio

import (
	"io"
	"os"

	"github.com/dutov-ivan/extsort/internal/xerrors"
)

// Reader is the line-source contract every run builder and merger
// consumes. NextLine returns a view valid only until the next call —
// callers that need to retain a line must copy it.
type Reader interface {
	// NextLine returns the next line, with any trailing '\n'/'\r\n'
	// stripped. ok is false at end of input; err is non-nil only on a
	// genuine I/O failure (EOF is not an error).
	NextLine() (line []byte, ok bool, err error)
	// IsEnd reports whether the source is exhausted and no buffered
	// data remains.
	IsEnd() bool
	// Close releases any resources (file handle, mapping) the reader
	// holds. Safe to call more than once.
	Close() error
}

// BufReader is the default Reader: a fixed-size buffer refilled from an
// *os.File, reassembling lines that span a refill in a private scratch
// buffer.
type BufReader struct {
	f       *os.File
	buf     []byte
	pos     int
	end     int
	eof     bool
	scratch []byte
	owns    bool
}

// NewBufReader opens path and wraps it in a BufReader with the given
// internal buffer size (spec.md default 64 KiB). The reader owns the
// file and closes it.
func NewBufReader(path string, bufferBytes int) (*BufReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.WrapIO(err, "open "+path)
	}
	r := NewBufReaderFile(f, bufferBytes)
	r.owns = true
	return r, nil
}

// NewBufReaderFile wraps an already-open file borrowed from its owner
// (e.g. a tempfile.TempFile). Close does not close f; the caller's
// owner manages the handle's lifetime across passes.
func NewBufReaderFile(f *os.File, bufferBytes int) *BufReader {
	if bufferBytes <= 0 {
		bufferBytes = 64 * 1024
	}
	return &BufReader{f: f, buf: make([]byte, bufferBytes)}
}

func (r *BufReader) fill() error {
	if r.eof {
		return nil
	}
	n, err := r.f.Read(r.buf)
	r.pos, r.end = 0, n
	if err != nil {
		if err == io.EOF {
			r.eof = true
			return nil
		}
		return xerrors.WrapIO(err, "read")
	}
	return nil
}

// NextLine implements Reader.
func (r *BufReader) NextLine() ([]byte, bool, error) {
	r.scratch = r.scratch[:0]

	for {
		if r.pos < r.end {
			chunk := r.buf[r.pos:r.end]
			if idx := indexByte(chunk, '\n'); idx >= 0 {
				r.scratch = append(r.scratch, chunk[:idx]...)
				r.pos += idx + 1
				return trimCR(r.scratch), true, nil
			}
			r.scratch = append(r.scratch, chunk...)
			r.pos = r.end
		}

		if r.eof {
			line := r.scratch
			r.scratch = nil // drained: IsEnd() must see this as nil from here on
			if len(line) > 0 {
				return trimCR(line), true, nil
			}
			return nil, false, nil
		}

		if err := r.fill(); err != nil {
			return nil, false, err
		}
	}
}

// IsEnd implements Reader.
func (r *BufReader) IsEnd() bool {
	return r.eof && r.pos >= r.end && r.scratch == nil
}

// Close implements Reader. It only closes the underlying file when the
// reader opened it itself (via NewBufReader); a reader wrapping a
// borrowed handle leaves it open for its owner to manage.
func (r *BufReader) Close() error {
	if r.f == nil || !r.owns {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	if err != nil {
		return xerrors.WrapIO(err, "close")
	}
	return nil
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

func trimCR(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		return line[:n-1]
	}
	return line
}
