// Package runbuilder implements phase 1: splitting the input stream
// into sorted runs distributed round-robin across a bucket of temp
// files, under a bounded memory budget. Two algorithms are provided:
// Natural (C5 in spec.md) and ReplacementSelection (C6).
package runbuilder

import (
	"github.com/dutov-ivan/extsort/internal/lineio"
	"github.com/dutov-ivan/extsort/internal/metrics"
	"github.com/dutov-ivan/extsort/internal/order"
	"github.com/dutov-ivan/extsort/internal/record"
	"github.com/dutov-ivan/extsort/internal/tempfile"
	"github.com/dutov-ivan/extsort/internal/xlog"
)

// Builder generates phase-1 runs from reader into dest, round-robin by
// run index, all runs internally ordered by ord.
type Builder interface {
	Build(reader lineio.Reader, dest *tempfile.Bucket, ord order.Order) error
}

// Natural is the C5 run builder: it splits the input at key descents
// (relative to ord) and distributes consecutive runs round-robin, with
// no attempt to extend a run beyond what arrived already sorted.
// Grounded on the original StdSolution::load_initial_series and its Go
// port in ReilEgor's distributeRuns/firstDistributeRuns.
type Natural struct {
	// FlushThresholdBytes bounds how much of one destination's pending
	// lines are buffered in memory before being flushed to its writer.
	FlushThresholdBytes int
	Log                 xlog.Logger
	Metrics             *metrics.Registry
}

// Build implements Builder.
func (n *Natural) Build(reader lineio.Reader, dest *tempfile.Bucket, ord order.Order) error {
	log := n.Log
	if log == nil {
		log = xlog.Nop()
	}

	bucketSize := len(dest.Files)
	writers := make([]*lineio.Writer, bucketSize)
	pending := make([][]byte, bucketSize)
	threshold := n.FlushThresholdBytes
	if threshold <= 0 {
		threshold = 1 << 20
	}

	for i, tf := range dest.Files {
		writers[i] = lineio.NewWriter(tf.Handle(), threshold)
	}

	flush := func(idx int) error {
		if len(pending[idx]) == 0 {
			return nil
		}
		if err := writers[idx].WriteRaw(pending[idx]); err != nil {
			return err
		}
		pending[idx] = pending[idx][:0]
		return nil
	}

	// seriesCount is the index of the current run. The sentinel makes the
	// first record a boundary, which moves it from -1 to run 0.
	seriesCount := -1
	lastKey := ord.Sentinel()

	for {
		line, ok, err := reader.NextLine()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if len(line) == 0 {
			continue
		}

		newKey, err := record.KeyOf(line)
		if err != nil {
			return err
		}
		if n.Metrics != nil {
			n.Metrics.RecordsRead.Inc()
		}

		if ord.SeriesBoundary(lastKey, newKey) {
			if seriesCount >= 0 {
				if err := flush(seriesCount % bucketSize); err != nil {
					return err
				}
			}
			seriesCount++
		}
		lastKey = newKey

		idx := seriesCount % bucketSize
		pending[idx] = append(pending[idx], line...)
		pending[idx] = append(pending[idx], '\n')
		if len(pending[idx]) >= threshold {
			if err := flush(idx); err != nil {
				return err
			}
		}
	}

	for i := range pending {
		if err := flush(i); err != nil {
			return err
		}
		if err := writers[i].Flush(); err != nil {
			return err
		}
	}

	log.WithField("descents", seriesCount).Debug("natural run builder finished phase 1")
	if n.Metrics != nil {
		n.Metrics.RunsTotal.Add(float64(seriesCount + 1))
	}

	return dest.ResetCursors()
}
