package tempfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTempFileClearAndResetCursor(t *testing.T) {
	dir := t.TempDir()
	tf, err := Open(dir + "/f0")
	require.NoError(t, err)
	defer tf.Close()

	_, err = tf.Handle().WriteString("hello")
	require.NoError(t, err)

	size, err := tf.Size()
	require.NoError(t, err)
	require.Equal(t, int64(5), size)

	empty, err := tf.IsEmpty()
	require.NoError(t, err)
	require.False(t, empty)

	require.NoError(t, tf.Clear())

	empty, err = tf.IsEmpty()
	require.NoError(t, err)
	require.True(t, empty)
}

func TestBucketLifecycle(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBucket(dir, "b", 3)
	require.NoError(t, err)
	defer b.Close()

	require.Len(t, b.Files, 3)

	n, err := b.NonEmptyCount()
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = b.Files[0].Handle().WriteString("x")
	require.NoError(t, err)

	n, err = b.NonEmptyCount()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, b.ClearAll())
	n, err = b.NonEmptyCount()
	require.NoError(t, err)
	require.Zero(t, n)
}
