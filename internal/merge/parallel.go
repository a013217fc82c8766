package merge

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dutov-ivan/extsort/internal/lineio"
	"github.com/dutov-ivan/extsort/internal/tempfile"
	"github.com/dutov-ivan/extsort/internal/xlog"
)

// ParallelMergeCoordinator is the C10 variant of PassDriver: it
// modulo-stripes source readers into |dest| disjoint groups (reader
// index j goes to group j mod |dest|) and runs each group's merge on
// its own dedicated destination file concurrently, via a worker pool
// sized by Workers. No two workers share a reader or a writer, so no
// synchronization is needed beyond the pass-boundary barrier that
// errgroup.Wait provides.
type ParallelMergeCoordinator struct {
	Driver  *PassDriver
	Workers int
	Log     xlog.Logger
}

// RunPass partitions src's readers across dest's files and merges each
// partition independently, then waits for every worker before
// returning (spec.md §4.10's "controller waits until the counter
// returns to zero before the next pass").
func (c *ParallelMergeCoordinator) RunPass(src, dest *tempfile.Bucket) error {
	log := c.Log
	if log == nil {
		log = xlog.Nop()
	}

	peeks, err := c.Driver.openSourceReaders(src)
	if err != nil {
		return err
	}
	defer func() {
		for _, p := range peeks {
			p.Close()
		}
	}()
	if c.Driver.Metrics != nil {
		c.Driver.Metrics.ActiveFiles.Set(float64(len(peeks)))
	}

	if err := dest.ClearAll(); err != nil {
		return err
	}

	writeBuf := c.Driver.WriteBufferBytes
	if writeBuf <= 0 {
		writeBuf = 1 << 20
	}
	groupCount := len(dest.Files)
	groups := make([][]*PeekReader, groupCount)
	for j, p := range peeks {
		g := j % groupCount
		groups[g] = append(groups[g], p)
	}

	workers := c.Workers
	if workers <= 0 {
		workers = 1
	}

	var eg errgroup.Group
	eg.SetLimit(workers)

	var totalRuns, totalBytes int64

	for g := 0; g < groupCount; g++ {
		g := g
		tf := dest.Files[g]
		members := groups[g]
		eg.Go(func() error {
			w := lineio.NewWriter(tf.Handle(), writeBuf)
			merger := &KWayMerger{Order: c.Driver.Order}
			runs := 0
			for {
				active := activeGroup(members)
				if len(active) == 0 {
					break
				}
				if err := merger.MergeOneRun(active, w); err != nil {
					return err
				}
				runs++
			}
			if err := w.Flush(); err != nil {
				return err
			}
			atomic.AddInt64(&totalRuns, int64(runs))
			atomic.AddInt64(&totalBytes, w.BytesWritten)
			log.WithField("group", g).WithField("runs", runs).Debug("parallel merge group finished")
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	if c.Driver.Metrics != nil {
		c.Driver.Metrics.RunsTotal.Add(float64(totalRuns))
		c.Driver.Metrics.BytesWritten.Add(float64(totalBytes))
	}

	return dest.ResetCursors()
}
