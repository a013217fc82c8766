// Package config resolves the engine's tunable constants into a single
// value passed to every constructor, per spec.md §9's "no global
// mutable state" design note.
package config

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/dutov-ivan/extsort/internal/order"
)

// Variant selects the phase-1 run-generation algorithm.
type Variant string

const (
	VariantNatural                Variant = "natural"
	VariantReplacementSelection   Variant = "replacement-selection"
	VariantParallelReplacementSel Variant = "parallel-replacement-selection"
)

// Defaults mirror spec.md §6.
const (
	DefaultBucketSize        = 3
	DefaultReadBufferBytes   = 64 * 1024
	DefaultWriteBufferBytes  = 1024 * 1024
	DefaultPhase1MemoryBytes = 480 * 1024 * 1024
	DefaultBucketAPrefix     = "b"
	DefaultBucketBPrefix     = "c"
)

// Config carries every tunable the engine needs. It is constructed once
// per run and passed by value/pointer to constructors; nothing is read
// from package-level state.
type Config struct {
	InputPath         string
	WorkDir           string
	BucketSize        int
	ReadBufferBytes   int
	WriteBufferBytes  int
	Phase1MemoryBytes int64
	Variant           Variant
	BucketAPrefix     string
	BucketBPrefix     string
	UseMmap           bool
	Parallelism       int
	LogLevel          string
	MetricsAddr       string
	Order             order.Order
}

// Default returns a Config populated with spec.md's defaults.
func Default() Config {
	return Config{
		InputPath:         "input.txt",
		WorkDir:           ".",
		BucketSize:        DefaultBucketSize,
		ReadBufferBytes:   DefaultReadBufferBytes,
		WriteBufferBytes:  DefaultWriteBufferBytes,
		Phase1MemoryBytes: DefaultPhase1MemoryBytes,
		Variant:           VariantNatural,
		BucketAPrefix:     DefaultBucketAPrefix,
		BucketBPrefix:     DefaultBucketBPrefix,
		LogLevel:          "info",
		Order:             order.Ascending,
	}
}

// Validate checks invariants the constructors rely on rather than
// re-validating themselves.
func (c Config) Validate() error {
	if c.BucketSize < 2 {
		return errors.Errorf("bucket size must be >= 2, got %d", c.BucketSize)
	}
	if c.ReadBufferBytes <= 0 {
		return errors.Errorf("read buffer must be positive, got %d", c.ReadBufferBytes)
	}
	if c.WriteBufferBytes <= 0 {
		return errors.Errorf("write buffer must be positive, got %d", c.WriteBufferBytes)
	}
	if c.Phase1MemoryBytes <= 0 {
		return errors.Errorf("memory budget must be positive, got %d", c.Phase1MemoryBytes)
	}
	switch c.Variant {
	case VariantNatural, VariantReplacementSelection, VariantParallelReplacementSel:
	default:
		return errors.Errorf("unknown variant %q", c.Variant)
	}
	if c.BucketAPrefix == "" || c.BucketBPrefix == "" || c.BucketAPrefix == c.BucketBPrefix {
		return errors.Errorf("bucket prefixes must be distinct and non-empty, got %q/%q", c.BucketAPrefix, c.BucketBPrefix)
	}
	return nil
}

// ParallelWorkers resolves the worker-pool size for the parallel merge
// variant: the configured value if set, else max(1, ncpu-1) per
// spec.md §5.
func (c Config) ParallelWorkers() int {
	if c.Parallelism > 0 {
		return c.Parallelism
	}
	if n := runtime.GOMAXPROCS(0) - 1; n > 0 {
		return n
	}
	return 1
}

// ParseMemoryBudget parses a human value like "480MiB" via go-humanize,
// falling back to a plain byte count.
func ParseMemoryBudget(s string) (int64, error) {
	bytes, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid memory budget %q", s)
	}
	return int64(bytes), nil
}

// FormatBytes renders a byte count the way log lines and --help text do.
func FormatBytes(n int64) string {
	if n < 0 {
		return fmt.Sprintf("%d", n)
	}
	return humanize.IBytes(uint64(n))
}
