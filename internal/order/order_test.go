package order

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAscendingLess(t *testing.T) {
	require.True(t, Ascending.Less(1, 2))
	require.False(t, Ascending.Less(2, 1))
}

func TestDescendingLess(t *testing.T) {
	require.True(t, Descending.Less(2, 1))
	require.False(t, Descending.Less(1, 2))
}

func TestContinues(t *testing.T) {
	require.True(t, Ascending.Continues(5, 5), "equal keys continue a run")
	require.True(t, Ascending.Continues(5, 6), "non-decreasing key continues an ascending run")
	require.False(t, Ascending.Continues(5, 4), "decreasing key breaks an ascending run")

	require.True(t, Descending.Continues(5, 4), "non-increasing key continues a descending run")
	require.False(t, Descending.Continues(5, 6), "increasing key breaks a descending run")
}

func TestSentinelStartsFirstRun(t *testing.T) {
	require.True(t, Ascending.SeriesBoundary(Ascending.Sentinel(), -1<<61))
	require.True(t, Descending.SeriesBoundary(Descending.Sentinel(), 1<<61))
}
