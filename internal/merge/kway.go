// Package merge implements phase 2: the k-way merge of runs (C7), the
// pass driver that orchestrates one full bucket-to-bucket pass (C8),
// the polyphase controller that loops passes to termination (C9), and
// an optional worker-pool parallel variant (C10).
package merge

import (
	"container/heap"

	"github.com/dutov-ivan/extsort/internal/lineio"
	"github.com/dutov-ivan/extsort/internal/order"
	"github.com/dutov-ivan/extsort/internal/record"
)

type heapEntry struct {
	key  int64
	line []byte
	idx  int
}

// readerHeap orders entries by key, tie-breaking on reader index for a
// deterministic (if unspecified-by-spec) merge order.
type readerHeap struct {
	items []heapEntry
	ord   order.Order
}

func (h *readerHeap) Len() int { return len(h.items) }
func (h *readerHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.key != b.key {
		return h.ord.Less(a.key, b.key)
	}
	return a.idx < b.idx
}
func (h *readerHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *readerHeap) Push(x any)    { h.items = append(h.items, x.(heapEntry)) }
func (h *readerHeap) Pop() any {
	old := h.items
	n := len(old)
	e := old[n-1]
	h.items = old[:n-1]
	return e
}

// KWayMerger merges one run out of a group of readers into writer: it
// primes one line per reader, then repeatedly emits the heap minimum
// (per ord) and re-reads from that reader, pushing the new line back
// only if it continues the same run. Implements C7 in spec.md.
type KWayMerger struct {
	Order order.Order
}

// MergeOneRun runs the algorithm in spec.md §4.7 against readers,
// writing one maximal run to w. Readers that still have data positioned
// at the start of their next run (because its head key broke the
// current run) are left untouched for the next call.
func (m *KWayMerger) MergeOneRun(readers []lineio.Reader, w *lineio.Writer) error {
	h := &readerHeap{ord: m.Order}
	heap.Init(h)

	for i, r := range readers {
		line, ok, err := r.NextLine()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		key, err := record.KeyOf(line)
		if err != nil {
			return err
		}
		owned := make([]byte, len(line))
		copy(owned, line)
		heap.Push(h, heapEntry{key: key, line: owned, idx: i})
	}

	if h.Len() == 0 {
		return nil
	}

	lastKeyWritten := m.Order.Sentinel()

	for h.Len() > 0 {
		e := heap.Pop(h).(heapEntry)
		if err := w.WriteLine(e.line); err != nil {
			return err
		}
		lastKeyWritten = e.key

		line, ok, err := readers[e.idx].NextLine()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		key, err := record.KeyOf(line)
		if err != nil {
			return err
		}
		owned := make([]byte, len(line))
		copy(owned, line)

		if !m.Order.Continues(lastKeyWritten, key) {
			// The run in this reader ended here: push the line back so
			// the next merge call on this group picks it up as the
			// start of its next run (spec.md §4.7c). BufReader/
			// MmapReader can't rewind arbitrarily, so callers must wrap
			// each reader in a PeekReader for this to take effect.
			if pr, ok := readers[e.idx].(*PeekReader); ok {
				pr.PushBack(owned)
			}
			continue
		}
		heap.Push(h, heapEntry{key: key, line: owned, idx: e.idx})
	}

	return w.Flush()
}
