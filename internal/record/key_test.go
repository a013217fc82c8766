package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyOf(t *testing.T) {
	cases := []struct {
		line string
		key  int64
	}{
		{"42-payload", 42},
		{"-17-payload", -17},
		{"0-x", 0},
		{"123456789012-x", 123456789012},
	}
	for _, c := range cases {
		key, err := KeyOfString(c.line)
		require.NoError(t, err)
		require.Equal(t, c.key, key, c.line)
	}
}

func TestKeyOfMalformed(t *testing.T) {
	for _, line := range []string{"", "-", "abc-payload", "-abc"} {
		_, err := KeyOfString(line)
		require.Error(t, err, line)
	}
}
