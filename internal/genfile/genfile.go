// Package genfile generates synthetic KEY[-PAYLOAD] input files for
// exercising the sort engine, backing the "extsort generate" CLI
// subcommand (A5 in SPEC_FULL.md). Grounded on ReilEgor's
// generateRandomFileA/generateRandomLine and amartin96's CreateFile.
package genfile

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"

	"github.com/dutov-ivan/extsort/internal/xerrors"
)

// Options controls the generated file's shape.
type Options struct {
	Lines       int
	MinKey      int64
	MaxKey      int64
	PayloadSize int
	Seed        int64
	Descending  bool // not read by Generate: keys are always drawn uniformly, with no bias
}

const payloadCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generate writes opts.Lines lines of the form "KEY-PAYLOAD" to path,
// one per line, with keys drawn uniformly from [MinKey, MaxKey].
func Generate(path string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return xerrors.WrapIO(err, "create "+path)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	rng := rand.New(rand.NewSource(opts.Seed))

	span := opts.MaxKey - opts.MinKey + 1
	if span <= 0 {
		span = 1
	}

	for i := 0; i < opts.Lines; i++ {
		key := opts.MinKey + rng.Int63n(span)
		if _, err := fmt.Fprintf(w, "%d-%s\n", key, randomPayload(rng, opts.PayloadSize)); err != nil {
			return xerrors.WrapIO(err, "write "+path)
		}
	}

	if err := w.Flush(); err != nil {
		return xerrors.WrapIO(err, "flush "+path)
	}
	return nil
}

func randomPayload(rng *rand.Rand, size int) string {
	if size <= 0 {
		return ""
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = payloadCharset[rng.Intn(len(payloadCharset))]
	}
	return string(buf)
}
