package merge

import "github.com/dutov-ivan/extsort/internal/lineio"

// PeekReader decorates a lineio.Reader with the ability to push a line
// back onto the front of the stream. KWayMerger uses this so a run that
// ends mid-file (the next key breaks the current run, per spec.md
// §4.7c) leaves the reader positioned at that line for the group's next
// merge call, without requiring true file-seek pushback in the
// underlying reader.
type PeekReader struct {
	inner      lineio.Reader
	pending    []byte
	hasPending bool
}

// NewPeekReader wraps r.
func NewPeekReader(r lineio.Reader) *PeekReader {
	return &PeekReader{inner: r}
}

// NextLine implements lineio.Reader.
func (p *PeekReader) NextLine() ([]byte, bool, error) {
	if p.hasPending {
		line := p.pending
		p.pending = nil
		p.hasPending = false
		return line, true, nil
	}
	return p.inner.NextLine()
}

// IsEnd implements lineio.Reader.
func (p *PeekReader) IsEnd() bool {
	return !p.hasPending && p.inner.IsEnd()
}

// Close implements lineio.Reader.
func (p *PeekReader) Close() error {
	return p.inner.Close()
}

// HasPending reports whether a pushed-back line is waiting to be
// re-consumed, i.e. whether this reader still has an unfinished run.
func (p *PeekReader) HasPending() bool {
	return p.hasPending
}

// PushBack makes line the next line NextLine returns. line must be
// owned by the caller (not a view into a buffer that will be reused).
func (p *PeekReader) PushBack(line []byte) {
	p.pending = line
	p.hasPending = true
}

var _ lineio.Reader = (*PeekReader)(nil)
