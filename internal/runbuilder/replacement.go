package runbuilder

import (
	"container/heap"

	"github.com/dutov-ivan/extsort/internal/lineio"
	"github.com/dutov-ivan/extsort/internal/metrics"
	"github.com/dutov-ivan/extsort/internal/order"
	"github.com/dutov-ivan/extsort/internal/record"
	"github.com/dutov-ivan/extsort/internal/tempfile"
	"github.com/dutov-ivan/extsort/internal/xlog"
)

// recordOverheadBytes approximates the fixed per-record bookkeeping
// cost (slice header, heap slot, key) added to a line's capacity when
// accounting against the memory budget, per spec.md §4.6.
const recordOverheadBytes = 48

type heapEntry struct {
	key  int64
	line []byte
}

// recordHeap is a container/heap.Interface ordered by ord, so the same
// implementation serves both the ascending (min-heap) and descending
// (max-heap) variants spec.md §4.6 calls out.
type recordHeap struct {
	items []heapEntry
	ord   order.Order
}

func (h *recordHeap) Len() int { return len(h.items) }
func (h *recordHeap) Less(i, j int) bool {
	return h.ord.Less(h.items[i].key, h.items[j].key)
}
func (h *recordHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *recordHeap) Push(x any)    { h.items = append(h.items, x.(heapEntry)) }
func (h *recordHeap) Pop() any {
	old := h.items
	n := len(old)
	e := old[n-1]
	h.items = old[:n-1]
	return e
}

// ReplacementSelection is the C6 run builder: a heap-based long-run
// generator that holds up to MemoryBudgetBytes worth of records and
// defers out-of-order arrivals to the next run, producing runs of
// expected length ≈ 2M. Grounded on the original AiSolution's
// load_initial_series (the one true replacement-selection variant in
// the source; the "modified" solution's load_initial_series is the
// natural splitter, ported separately as Natural).
type ReplacementSelection struct {
	MemoryBudgetBytes   int64
	FlushThresholdBytes int
	Log                 xlog.Logger
	Metrics             *metrics.Registry
}

func recordCost(line []byte) int64 {
	return int64(cap(line)) + recordOverheadBytes
}

// Build implements Builder.
func (rs *ReplacementSelection) Build(reader lineio.Reader, dest *tempfile.Bucket, ord order.Order) error {
	log := rs.Log
	if log == nil {
		log = xlog.Nop()
	}

	budget := rs.MemoryBudgetBytes
	if budget <= 0 {
		budget = 480 * 1024 * 1024
	}
	writeBuf := rs.FlushThresholdBytes
	if writeBuf <= 0 {
		writeBuf = 1 << 20
	}

	bucketSize := len(dest.Files)
	writers := make([]*lineio.Writer, bucketSize)
	for i, tf := range dest.Files {
		writers[i] = lineio.NewWriter(tf.Handle(), writeBuf)
	}

	h := &recordHeap{ord: ord}
	heap.Init(h)
	var next []heapEntry // S: records deferred to the next run
	var memUsed int64

	readNext := func() (heapEntry, bool, error) {
		for {
			line, ok, err := reader.NextLine()
			if err != nil || !ok {
				return heapEntry{}, false, err
			}
			if len(line) == 0 {
				continue
			}
			key, err := record.KeyOf(line)
			if err != nil {
				return heapEntry{}, false, err
			}
			// Copy: the reader's buffer is only valid until the next call,
			// but the heap may hold this record across many NextLine calls.
			owned := make([]byte, len(line))
			copy(owned, line)
			if rs.Metrics != nil {
				rs.Metrics.RecordsRead.Inc()
			}
			return heapEntry{key: key, line: owned}, true, nil
		}
	}

	// Prime: fill the heap up to the memory budget.
	for memUsed < budget {
		e, ok, err := readNext()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		heap.Push(h, e)
		memUsed += recordCost(e.line)
	}

	if h.Len() == 0 {
		return dest.ResetCursors()
	}

	writerIdx := 0
	runCount := 0
	lastEmitted := h.ord.Sentinel()

	for {
		e := heap.Pop(h).(heapEntry)
		memUsed -= recordCost(e.line)
		if err := writers[writerIdx].WriteLine(e.line); err != nil {
			return err
		}
		lastEmitted = e.key

		nxt, ok, err := readNext()
		if err != nil {
			return err
		}
		if ok {
			if ord.Continues(lastEmitted, nxt.key) {
				heap.Push(h, nxt)
				memUsed += recordCost(nxt.line)
			} else {
				next = append(next, nxt)
			}
		}

		if h.Len() == 0 {
			if err := writers[writerIdx].Flush(); err != nil {
				return err
			}
			runCount++

			if len(next) == 0 {
				break
			}

			writerIdx = (writerIdx + 1) % bucketSize
			for _, e := range next {
				heap.Push(h, e)
				memUsed += recordCost(e.line)
			}
			next = next[:0]
		}
	}

	for _, w := range writers {
		if err := w.Flush(); err != nil {
			return err
		}
	}

	log.WithField("runs", runCount).Debug("replacement selection finished phase 1")
	if rs.Metrics != nil {
		rs.Metrics.RunsTotal.Add(float64(runCount))
	}

	return dest.ResetCursors()
}
