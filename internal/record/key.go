// Package record implements the key-parsing contract (C4 in spec.md):
// the longest leading signed decimal integer of a record line.
package record

import "github.com/dutov-ivan/extsort/internal/xerrors"

// KeyOf extracts the integer key prefix of line. It mirrors the
// original solver's fast_get_key_sv: a single pass over the bytes, no
// allocation, stopping at the first non-digit. Returns
// xerrors.MalformedRecord if zero digits were consumed.
func KeyOf(line []byte) (int64, error) {
	if len(line) == 0 {
		return 0, xerrors.Malformed(string(line))
	}

	i := 0
	neg := false
	if line[0] == '-' {
		neg = true
		i++
	}

	start := i
	var val int64
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		val = val*10 + int64(line[i]-'0')
		i++
	}
	if i == start {
		return 0, xerrors.Malformed(string(line))
	}
	if neg {
		val = -val
	}
	return val, nil
}

// KeyOfString is the string-keyed convenience wrapper used by tests and
// by code paths that already hold a string rather than a []byte view.
func KeyOfString(line string) (int64, error) {
	return KeyOf([]byte(line))
}
