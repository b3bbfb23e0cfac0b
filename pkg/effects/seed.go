// Package effects :: Derive a reproducible set of camera motion and color grading
// parameters from a file identity, and compile them into an ffmpeg filter graph
package effects

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// FallbackSeed Seed used when the identifier digest cannot be parsed
const FallbackSeed uint32 = 12345

// Number of leading hex digits of the digest making up the seed
const seedDigits = 8

// DeriveSeed Collapse an identifier (usually a file path) into a stable seed.
// The same identifier always gives the same seed, on every platform
func DeriveSeed(identifier string) uint32 {
	digest := md5.Sum([]byte(identifier))
	return parseSeed(hex.EncodeToString(digest[:])[:seedDigits])
}

func parseSeed(hexPrefix string) uint32 {
	seed, err := strconv.ParseUint(hexPrefix, 16, 32)
	if err != nil {
		return FallbackSeed
	}
	return uint32(seed)
}
