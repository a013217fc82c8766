package merge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dutov-ivan/extsort/internal/lineio"
	"github.com/dutov-ivan/extsort/internal/order"
	"github.com/dutov-ivan/extsort/internal/tempfile"
)

func writeRunsToBucket(t *testing.T, b *tempfile.Bucket, runs [][]string) {
	t.Helper()
	for i, lines := range runs {
		f := b.Files[i%len(b.Files)].Handle()
		for _, line := range lines {
			_, err := f.WriteString(line + "\n")
			require.NoError(t, err)
		}
	}
	require.NoError(t, b.ResetCursors())
}

func readNonEmptyFiles(t *testing.T, b *tempfile.Bucket) [][]string {
	t.Helper()
	var out [][]string
	for _, tf := range b.Files {
		require.NoError(t, tf.ResetCursor())
		r := lineio.NewBufReaderFile(tf.Handle(), 4096)
		var lines []string
		for {
			line, ok, err := r.NextLine()
			require.NoError(t, err)
			if !ok {
				break
			}
			lines = append(lines, string(line))
		}
		if len(lines) > 0 {
			out = append(out, lines)
		}
	}
	return out
}

func TestPassDriverMergesTwoRunsPerFile(t *testing.T) {
	dir := t.TempDir()
	src, err := tempfile.NewBucket(dir, "b", 2)
	require.NoError(t, err)
	defer src.Close()
	dest, err := tempfile.NewBucket(dir, "c", 2)
	require.NoError(t, err)
	defer dest.Close()

	// Two runs per file, distributed round-robin the way phase 1 leaves them.
	writeRunsToBucket(t, src, [][]string{
		{"1-a", "5-e"},
		{"2-b", "6-f"},
		{"3-c", "7-g"},
		{"4-d", "8-h"},
	})

	driver := &PassDriver{Order: order.Ascending, ReadBufferBytes: 64, WriteBufferBytes: 64}
	require.NoError(t, driver.RunPass(src, dest))

	got := readNonEmptyFiles(t, dest)
	require.Len(t, got, 2)
	for _, run := range got {
		for i := 1; i < len(run); i++ {
			require.LessOrEqual(t, run[i-1], run[i])
		}
	}
}

func TestPassDriverSkipsEmptySourceFiles(t *testing.T) {
	dir := t.TempDir()
	src, err := tempfile.NewBucket(dir, "b", 3)
	require.NoError(t, err)
	defer src.Close()
	dest, err := tempfile.NewBucket(dir, "c", 3)
	require.NoError(t, err)
	defer dest.Close()

	writeRunsToBucket(t, src, [][]string{
		{"1-a", "2-b"},
	})

	driver := &PassDriver{Order: order.Ascending}
	require.NoError(t, driver.RunPass(src, dest))

	got := readNonEmptyFiles(t, dest)
	require.Len(t, got, 1)
	require.Equal(t, []string{"1-a", "2-b"}, got[0])
}
