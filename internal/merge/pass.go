package merge

import (
	"github.com/dutov-ivan/extsort/internal/lineio"
	"github.com/dutov-ivan/extsort/internal/metrics"
	"github.com/dutov-ivan/extsort/internal/order"
	"github.com/dutov-ivan/extsort/internal/tempfile"
	"github.com/dutov-ivan/extsort/internal/xlog"
)

// PassDriver orchestrates one full bucket-to-bucket pass (C8): it opens
// a reader over every non-empty file in the source bucket, truncates
// the destination bucket, and repeatedly calls KWayMerger.MergeOneRun
// across the whole set of still-active readers, round-robining the
// destination file, until every reader is exhausted.
type PassDriver struct {
	Order            order.Order
	ReadBufferBytes  int
	WriteBufferBytes int
	UseMmap          bool
	Log              xlog.Logger
	Metrics          *metrics.Registry
}

// RunPass implements spec.md §4.8 against src/dest. dest is truncated
// and refilled; src is left positioned at EOF on every file (callers
// that want to reuse src as a destination next pass must ClearAll it
// first).
func (d *PassDriver) RunPass(src, dest *tempfile.Bucket) error {
	log := d.Log
	if log == nil {
		log = xlog.Nop()
	}

	peeks, err := d.openSourceReaders(src)
	if err != nil {
		return err
	}
	defer func() {
		for _, p := range peeks {
			p.Close()
		}
	}()
	if d.Metrics != nil {
		d.Metrics.ActiveFiles.Set(float64(len(peeks)))
	}

	if err := dest.ClearAll(); err != nil {
		return err
	}

	writeBuf := d.WriteBufferBytes
	if writeBuf <= 0 {
		writeBuf = 1 << 20
	}
	writers := make([]*lineio.Writer, len(dest.Files))
	for i, tf := range dest.Files {
		writers[i] = lineio.NewWriter(tf.Handle(), writeBuf)
	}

	merger := &KWayMerger{Order: d.Order}
	outputIdx := -1
	runsWritten := 0

	for {
		group := activeGroup(peeks)
		if len(group) == 0 {
			break
		}
		outputIdx = (outputIdx + 1) % len(writers)
		if err := merger.MergeOneRun(group, writers[outputIdx]); err != nil {
			return err
		}
		runsWritten++
	}
	if d.Metrics != nil {
		d.Metrics.RunsTotal.Add(float64(runsWritten))
	}

	var bytesWritten int64
	for _, w := range writers {
		if err := w.Flush(); err != nil {
			return err
		}
		bytesWritten += w.BytesWritten
	}
	if d.Metrics != nil {
		d.Metrics.BytesWritten.Add(float64(bytesWritten))
	}
	if err := dest.ResetCursors(); err != nil {
		return err
	}

	log.WithField("runs", runsWritten).Debug("merge pass finished")
	return nil
}

// openSourceReaders opens a PeekReader-wrapped reader for each
// non-empty file in src, per spec.md §4.8.1.
func (d *PassDriver) openSourceReaders(src *tempfile.Bucket) ([]*PeekReader, error) {
	readBuf := d.ReadBufferBytes
	if readBuf <= 0 {
		readBuf = 64 * 1024
	}

	var peeks []*PeekReader
	for _, tf := range src.Files {
		empty, err := tf.IsEmpty()
		if err != nil {
			return nil, err
		}
		if empty {
			continue
		}
		if err := tf.ResetCursor(); err != nil {
			return nil, err
		}

		var r lineio.Reader
		if d.UseMmap {
			mr, err := lineio.NewMmapReader(tf.Path(), readBuf)
			if err != nil {
				return nil, err
			}
			r = mr
		} else {
			r = lineio.NewBufReaderFile(tf.Handle(), readBuf)
		}
		peeks = append(peeks, NewPeekReader(r))
	}
	return peeks, nil
}

// activeGroup returns the readers that still have data, i.e. every
// reader whose file isn't exhausted or that holds a pushed-back line
// from the previous MergeOneRun call (spec.md §4.8.3a).
func activeGroup(peeks []*PeekReader) []lineio.Reader {
	group := make([]lineio.Reader, 0, len(peeks))
	for _, p := range peeks {
		if !p.IsEnd() {
			group = append(group, p)
		}
	}
	return group
}
