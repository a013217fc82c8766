// Package xerrors defines the fatal error taxonomy shared by every
// component of the sort engine.
package xerrors

import (
	"github.com/pkg/errors"
)

// Sentinel causes. Every error built with the helpers below has one of
// these as its root cause, reachable via errors.Cause or errors.Is.
// Configuration errors (config.Validate, config.ParseMemoryBudget) are
// not wrapped this way and map to exit code 1.
var (
	// IoError is any failure from the underlying file system: open,
	// read, write, flush, truncate.
	IoError = errors.New("io error")

	// MalformedRecord is a line that yielded no integer key.
	MalformedRecord = errors.New("malformed record")

	// OutOfTempFiles is raised when phase 1 tries to rotate past the
	// end of a bucket with unflushed state.
	OutOfTempFiles = errors.New("out of temp files")

	// InvariantViolation marks an internal assertion failure, e.g. a
	// pass that failed to reduce the run count.
	InvariantViolation = errors.New("invariant violation")
)

// WrapIO wraps err as an IoError, tagging it with the failing operation.
func WrapIO(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(IoError, "%s: %v", op, err)
}

// Malformed wraps the offending line as a MalformedRecord.
func Malformed(line string) error {
	return errors.Wrapf(MalformedRecord, "line %q", line)
}

// OutOfFiles wraps a bucket-exhaustion condition.
func OutOfFiles(bucketSize int) error {
	return errors.Wrapf(OutOfTempFiles, "bucket of size %d exhausted", bucketSize)
}

// Invariant wraps a broken invariant with context.
func Invariant(msg string) error {
	return errors.Wrap(InvariantViolation, msg)
}

// ExitCode maps a (possibly wrapped) error to a process exit code.
// Matches the taxonomy ordering in spec.md §7.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch errors.Cause(err) {
	case IoError:
		return 2
	case MalformedRecord:
		return 3
	case OutOfTempFiles:
		return 4
	case InvariantViolation:
		return 5
	default:
		return 1
	}
}
