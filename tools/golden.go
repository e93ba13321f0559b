// Package tools holds developer-facing comparison and diagnostic helpers
// that sit outside the core codec: golden-stream hashing and a byte-exact
// differ for fixture regression checks.
package tools

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// GoldenHash returns a content hash of an encoded byte stream, cheap
// enough to detect a non-bit-exact re-encode without diffing the full
// buffer. Two streams with the same hash are assumed byte-identical; a
// mismatch is conclusive, a match is not proof against the (vanishingly
// unlikely) hash collision — callers wanting certainty should fall back
// to Diff.
func GoldenHash(stream []byte) uint64 {
	return xxhash.Sum64(stream)
}

// GoldenHashString renders GoldenHash as a fixed-width hex string, suitable
// for storing alongside a fixture file as its expected golden value.
func GoldenHashString(stream []byte) string {
	return fmt.Sprintf("%016x", GoldenHash(stream))
}

// MatchesGolden reports whether stream's hash equals the previously
// recorded golden hex string, the same comparison a fixture regression
// test performs before falling back to a full Diff on mismatch.
func MatchesGolden(stream []byte, goldenHex string) bool {
	return GoldenHashString(stream) == goldenHex
}
