package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsBadBucketSize(t *testing.T) {
	cfg := Default()
	cfg.BucketSize = 1
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsSamePrefix(t *testing.T) {
	cfg := Default()
	cfg.BucketBPrefix = cfg.BucketAPrefix
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownVariant(t *testing.T) {
	cfg := Default()
	cfg.Variant = "bogus"
	require.Error(t, cfg.Validate())
}

func TestParseMemoryBudget(t *testing.T) {
	n, err := ParseMemoryBudget("1MiB")
	require.NoError(t, err)
	require.Equal(t, int64(1024*1024), n)
}

func TestParallelWorkersExplicit(t *testing.T) {
	cfg := Default()
	cfg.Parallelism = 7
	require.Equal(t, 7, cfg.ParallelWorkers())
}
