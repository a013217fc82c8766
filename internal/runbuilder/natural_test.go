package runbuilder

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dutov-ivan/extsort/internal/lineio"
	"github.com/dutov-ivan/extsort/internal/order"
	"github.com/dutov-ivan/extsort/internal/tempfile"
)

func newTestInput(t *testing.T, content string) lineio.Reader {
	t.Helper()
	path := t.TempDir() + "/in.txt"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	r, err := lineio.NewBufReader(path, 64*1024)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func readBucketLines(t *testing.T, b *tempfile.Bucket) [][]string {
	t.Helper()
	var out [][]string
	for _, tf := range b.Files {
		require.NoError(t, tf.ResetCursor())
		r := lineio.NewBufReaderFile(tf.Handle(), 64*1024)
		var lines []string
		for {
			line, ok, err := r.NextLine()
			require.NoError(t, err)
			if !ok {
				break
			}
			lines = append(lines, string(line))
		}
		out = append(out, lines)
	}
	return out
}

func TestNaturalBuildSplitsOnDescent(t *testing.T) {
	// Two ascending runs: 1,2,3 then 1,5.
	reader := newTestInput(t, "1-a\n2-b\n3-c\n1-d\n5-e\n")
	dest, err := tempfile.NewBucket(t.TempDir(), "b", 2)
	require.NoError(t, err)
	defer dest.Close()

	n := &Natural{}
	require.NoError(t, n.Build(reader, dest, order.Ascending))

	lines := readBucketLines(t, dest)
	require.Equal(t, []string{"1-a", "2-b", "3-c"}, lines[0])
	require.Equal(t, []string{"1-d", "5-e"}, lines[1])
}

func TestNaturalBuildEmptyInput(t *testing.T) {
	reader := newTestInput(t, "")
	dest, err := tempfile.NewBucket(t.TempDir(), "b", 2)
	require.NoError(t, err)
	defer dest.Close()

	n := &Natural{}
	require.NoError(t, n.Build(reader, dest, order.Ascending))

	for _, lines := range readBucketLines(t, dest) {
		require.Empty(t, lines)
	}
}
