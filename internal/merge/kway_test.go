package merge

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dutov-ivan/extsort/internal/lineio"
	"github.com/dutov-ivan/extsort/internal/order"
)

func newWriterFile(t *testing.T) (*lineio.Writer, *os.File) {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return lineio.NewWriter(f, 4096), f
}

func rereadLines(t *testing.T, f *os.File) []string {
	t.Helper()
	_, err := f.Seek(0, 0)
	require.NoError(t, err)
	r := lineio.NewBufReaderFile(f, 4096)
	var lines []string
	for {
		line, ok, err := r.NextLine()
		require.NoError(t, err)
		if !ok {
			break
		}
		lines = append(lines, string(line))
	}
	return lines
}

func TestMergeOneRunStopsAtBoundaryAndPushesBack(t *testing.T) {
	r1 := NewPeekReader(&sliceReader{lines: []string{"1-a", "3-c", "2-x"}})
	r2 := NewPeekReader(&sliceReader{lines: []string{"2-b", "4-d"}})
	m := &KWayMerger{Order: order.Ascending}

	w, f := newWriterFile(t)
	require.NoError(t, m.MergeOneRun([]lineio.Reader{r1, r2}, w))
	require.Equal(t, []string{"1-a", "2-b", "3-c", "4-d"}, rereadLines(t, f))

	require.True(t, r1.HasPending())
	require.True(t, r2.IsEnd())

	require.NoError(t, f.Truncate(0))
	w2, _ := newWriterFileAt(t, f)
	require.NoError(t, m.MergeOneRun([]lineio.Reader{r1, r2}, w2))
	require.Equal(t, []string{"2-x"}, rereadLines(t, f))
	require.True(t, r1.IsEnd())
}

func newWriterFileAt(t *testing.T, f *os.File) (*lineio.Writer, *os.File) {
	t.Helper()
	_, err := f.Seek(0, 0)
	require.NoError(t, err)
	return lineio.NewWriter(f, 4096), f
}

func TestMergeOneRunEmptyGroup(t *testing.T) {
	m := &KWayMerger{Order: order.Ascending}
	w, f := newWriterFile(t)
	require.NoError(t, m.MergeOneRun(nil, w))
	require.Empty(t, rereadLines(t, f))
}
