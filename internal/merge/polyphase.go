package merge

import (
	"github.com/dutov-ivan/extsort/internal/metrics"
	"github.com/dutov-ivan/extsort/internal/tempfile"
	"github.com/dutov-ivan/extsort/internal/xlog"
)

// PassRunner is whatever can execute one source-to-destination merge
// pass: PassDriver (sequential, C8) or ParallelMergeCoordinator (C10).
type PassRunner interface {
	RunPass(src, dest *tempfile.Bucket) error
}

// PolyphaseController loops a PassRunner over a ping-ponging pair of
// buckets until one file holds the fully sorted result (C9 in
// spec.md). Each pass swaps which bucket plays source and which plays
// destination; termination is "at most one non-empty file in the
// active bucket" per spec.md §4.9.
type PolyphaseController struct {
	Runner  PassRunner
	Log     xlog.Logger
	Metrics *metrics.Registry
}

// Result describes where the sorted output ended up.
type Result struct {
	Bucket *tempfile.Bucket
	File   int // index into Bucket.Files holding the sorted output
	Passes int
}

// Run merges a and b (the two ping-pong buckets phase 1 populated into
// one of them) until termination, returning the bucket and file index
// holding the sorted result.
func (c *PolyphaseController) Run(a, b *tempfile.Bucket) (Result, error) {
	log := c.Log
	if log == nil {
		log = xlog.Nop()
	}

	src, dest := a, b

	nonEmpty, err := src.NonEmptyCount()
	if err != nil {
		return Result{}, err
	}
	if nonEmpty == 0 {
		// Nothing was produced in phase 1: dest's files are already
		// empty and truncated, so any of them is a valid (empty) result.
		return Result{Bucket: dest, File: 0, Passes: 0}, nil
	}

	passes := 0
	for {
		if err := c.Runner.RunPass(src, dest); err != nil {
			return Result{}, err
		}
		passes++
		if c.Metrics != nil {
			c.Metrics.PassesTotal.Inc()
		}

		n, err := dest.NonEmptyCount()
		if err != nil {
			return Result{}, err
		}
		log.WithField("pass", passes).WithField("non_empty", n).Debug("polyphase pass complete")

		if n <= 1 {
			idx, err := soleNonEmpty(dest)
			if err != nil {
				return Result{}, err
			}
			return Result{Bucket: dest, File: idx, Passes: passes}, nil
		}

		src, dest = dest, src
	}
}

func soleNonEmpty(b *tempfile.Bucket) (int, error) {
	for i, f := range b.Files {
		empty, err := f.IsEmpty()
		if err != nil {
			return 0, err
		}
		if !empty {
			return i, nil
		}
	}
	// Every file is empty: the sorted output is the empty file at index 0.
	return 0, nil
}
