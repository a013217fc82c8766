package merge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dutov-ivan/extsort/internal/order"
	"github.com/dutov-ivan/extsort/internal/tempfile"
)

func TestParallelMergeCoordinatorStripesGroups(t *testing.T) {
	dir := t.TempDir()
	src, err := tempfile.NewBucket(dir, "b", 4)
	require.NoError(t, err)
	defer src.Close()
	dest, err := tempfile.NewBucket(dir, "c", 2)
	require.NoError(t, err)
	defer dest.Close()

	// Reader j goes to group j%2: files {0,2} -> dest 0, files {1,3} -> dest 1.
	writeRunsToBucket(t, src, [][]string{
		{"1-a", "3-c"},
		{"2-b", "4-d"},
		{"5-e"},
		{"6-f"},
	})

	driver := &PassDriver{Order: order.Ascending}
	coord := &ParallelMergeCoordinator{Driver: driver, Workers: 2}
	require.NoError(t, coord.RunPass(src, dest))

	got := readNonEmptyFiles(t, dest)
	require.Len(t, got, 2)
	for _, run := range got {
		for i := 1; i < len(run); i++ {
			require.LessOrEqual(t, run[i-1], run[i])
		}
	}
}
