// Package engine wires the run builders and the merge controller into
// the top-level entry point the CLI calls (A1/A6 orchestration point
// named in SPEC_FULL.md). It owns no algorithm of its own; it only
// selects, constructs, and sequences the components in internal/runbuilder
// and internal/merge per Config.Variant.
package engine

import (
	"os"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/dutov-ivan/extsort/internal/config"
	"github.com/dutov-ivan/extsort/internal/lineio"
	"github.com/dutov-ivan/extsort/internal/merge"
	"github.com/dutov-ivan/extsort/internal/metrics"
	"github.com/dutov-ivan/extsort/internal/runbuilder"
	"github.com/dutov-ivan/extsort/internal/tempfile"
	"github.com/dutov-ivan/extsort/internal/xerrors"
	"github.com/dutov-ivan/extsort/internal/xlog"
)

// Outcome reports where Sort left the fully sorted result.
type Outcome struct {
	Path   string
	Passes int
}

// Sort runs the full pipeline against cfg: phase 1 distributes
// cfg.InputPath's lines into bucket A as sorted runs, then phase 2
// polyphase-merges A/B until one file holds the sorted result. reg may
// be nil, in which case no metrics are recorded.
func Sort(cfg config.Config, log xlog.Logger, reg *metrics.Registry) (Outcome, error) {
	if log == nil {
		log = xlog.Nop()
	}
	if err := cfg.Validate(); err != nil {
		return Outcome{}, err
	}

	runID := uuid.NewString()
	log = log.WithField("run_id", runID)

	// Soft backstop on top of the heap's own accounting in
	// ReplacementSelection: GC more aggressively once the Go runtime's
	// memory nears one and a half times the configured budget instead of
	// trusting recordCost alone.
	prevLimit := debug.SetMemoryLimit(cfg.Phase1MemoryBytes + cfg.Phase1MemoryBytes/2)
	defer debug.SetMemoryLimit(prevLimit)

	a, err := tempfile.NewBucket(cfg.WorkDir, cfg.BucketAPrefix, cfg.BucketSize)
	if err != nil {
		return Outcome{}, err
	}
	defer a.Close()

	b, err := tempfile.NewBucket(cfg.WorkDir, cfg.BucketBPrefix, cfg.BucketSize)
	if err != nil {
		return Outcome{}, err
	}
	defer b.Close()

	// NewBucket keeps whatever an earlier run left in these files; both
	// buckets start this run empty.
	if err := a.ClearAll(); err != nil {
		return Outcome{}, err
	}
	if err := b.ClearAll(); err != nil {
		return Outcome{}, err
	}

	if err := runPhase1(cfg, log, reg, a); err != nil {
		return Outcome{}, err
	}

	result, err := runPhase2(cfg, log, reg, a, b)
	if err != nil {
		return Outcome{}, err
	}

	log.WithField("passes", result.Passes).
		WithField("output", result.Bucket.Files[result.File].Path()).
		Info("sort finished")

	return Outcome{Path: result.Bucket.Files[result.File].Path(), Passes: result.Passes}, nil
}

func runPhase1(cfg config.Config, log xlog.Logger, reg *metrics.Registry, dest *tempfile.Bucket) error {
	reader, err := openInput(cfg)
	if err != nil {
		return err
	}
	defer reader.Close()

	builder := selectBuilder(cfg, log, reg)
	if err := builder.Build(reader, dest, cfg.Order); err != nil {
		return err
	}
	log.Info("phase 1 (run generation) finished")
	return nil
}

func runPhase2(cfg config.Config, log xlog.Logger, reg *metrics.Registry, a, b *tempfile.Bucket) (merge.Result, error) {
	driver := &merge.PassDriver{
		Order:            cfg.Order,
		ReadBufferBytes:  cfg.ReadBufferBytes,
		WriteBufferBytes: cfg.WriteBufferBytes,
		UseMmap:          cfg.UseMmap,
		Log:              log,
		Metrics:          reg,
	}

	var runner merge.PassRunner = driver
	if cfg.Variant == config.VariantParallelReplacementSel {
		runner = &merge.ParallelMergeCoordinator{
			Driver:  driver,
			Workers: cfg.ParallelWorkers(),
			Log:     log,
		}
	}

	controller := &merge.PolyphaseController{Runner: runner, Log: log, Metrics: reg}
	return controller.Run(a, b)
}

func openInput(cfg config.Config) (lineio.Reader, error) {
	if _, err := os.Stat(cfg.InputPath); err != nil {
		return nil, xerrors.WrapIO(err, "stat "+cfg.InputPath)
	}
	if cfg.UseMmap {
		return lineio.NewMmapReader(cfg.InputPath, cfg.ReadBufferBytes)
	}
	return lineio.NewBufReader(cfg.InputPath, cfg.ReadBufferBytes)
}

func selectBuilder(cfg config.Config, log xlog.Logger, reg *metrics.Registry) runbuilder.Builder {
	switch cfg.Variant {
	case config.VariantReplacementSelection, config.VariantParallelReplacementSel:
		return &runbuilder.ReplacementSelection{
			MemoryBudgetBytes:   cfg.Phase1MemoryBytes,
			FlushThresholdBytes: cfg.WriteBufferBytes,
			Log:                 log,
			Metrics:             reg,
		}
	default:
		return &runbuilder.Natural{
			FlushThresholdBytes: cfg.WriteBufferBytes,
			Log:                 log,
			Metrics:             reg,
		}
	}
}
