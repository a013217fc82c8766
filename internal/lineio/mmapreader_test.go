package lineio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMmapReader(t *testing.T) {
	path := writeTemp(t, "10-a\n20-b\n30-c")
	r, err := NewMmapReader(path, 4096)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, []string{"10-a", "20-b", "30-c"}, readAll(t, r))
	require.True(t, r.IsEnd())
}

func TestMmapReaderEmptyFile(t *testing.T) {
	path := writeTemp(t, "")
	r, err := NewMmapReader(path, 4096)
	require.NoError(t, err)
	defer r.Close()

	require.True(t, r.IsEnd())
	_, ok, err := r.NextLine()
	require.NoError(t, err)
	require.False(t, ok)
}
