package lineio

import (
	"bufio"
	"os"

	"github.com/dutov-ivan/extsort/internal/xerrors"
)

// Writer is the buffered line sink every run builder, merger, and pass
// driver writes through (C2 in spec.md).
type Writer struct {
	f  *os.File
	bw *bufio.Writer

	// BytesWritten counts bytes accepted by WriteLine/WriteRaw,
	// including line terminators. Callers use it to feed metrics
	// without this package depending on the metrics package.
	BytesWritten int64
}

// NewWriter wraps f in a buffered writer of bufferBytes capacity
// (spec.md default 8 KiB–1 MiB).
func NewWriter(f *os.File, bufferBytes int) *Writer {
	if bufferBytes <= 0 {
		bufferBytes = 1024 * 1024
	}
	return &Writer{f: f, bw: bufio.NewWriterSize(f, bufferBytes)}
}

// WriteLine appends line followed by exactly one '\n'.
func (w *Writer) WriteLine(line []byte) error {
	if _, err := w.bw.Write(line); err != nil {
		return xerrors.WrapIO(err, "write")
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return xerrors.WrapIO(err, "write")
	}
	w.BytesWritten += int64(len(line)) + 1
	return nil
}

// WriteRaw appends buf verbatim, for callers that already include the
// trailing newlines (e.g. a natural run builder's in-memory batch).
func (w *Writer) WriteRaw(buf []byte) error {
	if _, err := w.bw.Write(buf); err != nil {
		return xerrors.WrapIO(err, "write")
	}
	w.BytesWritten += int64(len(buf))
	return nil
}

// Flush drains the internal buffer. Idempotent: flushing twice in a
// row is a cheap no-op the second time, since bufio.Writer itself
// tracks how much is buffered.
func (w *Writer) Flush() error {
	if err := w.bw.Flush(); err != nil {
		return xerrors.WrapIO(err, "flush")
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if err := w.f.Close(); err != nil {
		return xerrors.WrapIO(err, "close")
	}
	return nil
}
