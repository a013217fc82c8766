package lineio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readAll(t *testing.T, r Reader) []string {
	t.Helper()
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

func TestBufReaderSmallBuffer(t *testing.T) {
	path := writeTemp(t, "1-a\n2-bb\n3-ccc\n")
	// Tiny buffer forces lines to be reassembled across multiple refills.
	r, err := NewBufReader(path, 3)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, []string{"1-a", "2-bb", "3-ccc"}, readAll(t, r))
	require.True(t, r.IsEnd())
}

func TestBufReaderNoTrailingNewline(t *testing.T) {
	path := writeTemp(t, "1-a\n2-b")
	r, err := NewBufReader(path, 64*1024)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, []string{"1-a", "2-b"}, readAll(t, r))
	require.True(t, r.IsEnd())
}

func TestBufReaderCRLF(t *testing.T) {
	path := writeTemp(t, "1-a\r\n2-b\r\n")
	r, err := NewBufReader(path, 64*1024)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, []string{"1-a", "2-b"}, readAll(t, r))
}

func TestBufReaderFileDoesNotOwnHandle(t *testing.T) {
	path := writeTemp(t, "1-a\n")
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := NewBufReaderFile(f, 64*1024)
	require.NoError(t, r.Close())

	// The underlying handle must still be usable: Close on a borrowed
	// reader is a no-op.
	_, err = f.Stat()
	require.NoError(t, err)
}
