package lineio

import (
	"bytes"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/dutov-ivan/extsort/internal/xerrors"
)

// MmapReader is a Reader backed by a memory-mapped file. The whole file
// is mapped in one call and lines are returned as views straight into
// the mapping; there is no sliding window of chunks, and no line is
// ever copied into a scratch buffer.
type MmapReader struct {
	f         *os.File
	data      mmap.MMap
	size      int64
	chunkSize int

	curStart int64 // byte offset of the current chunk in data
	offset   int64 // read position within data

	scratch []byte
}

// NewMmapReader maps all of path and returns a reader over it.
// chunkSize is stored on the reader but does not affect how much of the
// file is mapped or how lines are read.
func NewMmapReader(path string, chunkSize int) (*MmapReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.WrapIO(err, "open "+path)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, xerrors.WrapIO(err, "stat "+path)
	}
	if info.Size() == 0 {
		// mmap.Map fails on a zero-length file; treat as an
		// already-exhausted reader instead.
		f.Close()
		return &MmapReader{size: 0}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, xerrors.WrapIO(err, "mmap "+path)
	}

	if chunkSize <= 0 {
		chunkSize = 64 * 1024
	}
	return &MmapReader{f: f, data: m, size: info.Size(), chunkSize: chunkSize}, nil
}

// NextLine implements Reader.
func (r *MmapReader) NextLine() ([]byte, bool, error) {
	if r.offset >= r.size {
		return nil, false, nil
	}

	start := r.offset
	if idx := bytes.IndexByte(r.data[start:r.size], '\n'); idx >= 0 {
		line := r.data[start : start+int64(idx)]
		r.offset = start + int64(idx) + 1
		return trimCR(line), true, nil
	}

	// No newline before EOF: the final line of the file.
	line := r.data[start:r.size]
	r.offset = r.size
	return trimCR(line), true, nil
}

// IsEnd implements Reader.
func (r *MmapReader) IsEnd() bool {
	return r.offset >= r.size
}

// Close implements Reader.
func (r *MmapReader) Close() error {
	var err error
	if r.data != nil {
		err = r.data.Unmap()
		r.data = nil
	}
	if r.f != nil {
		if cerr := r.f.Close(); err == nil {
			err = cerr
		}
		r.f = nil
	}
	if err != nil {
		return xerrors.WrapIO(err, "close mmap")
	}
	return nil
}
