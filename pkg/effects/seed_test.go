package effects

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestDeriveSeed_Deterministic(t *testing.T) {
	for _, id := range []string{"song_2024.mp3", "output/song_2024.mp3", "", "日本語.mp3"} {
		assert.Equal(t, DeriveSeed(id), DeriveSeed(id))
	}
}

// Digest prefixes computed with md5sum
func TestDeriveSeed_KnownValues(t *testing.T) {
	// md5("song_2024.mp3") = e87ef360...
	assert.Equal(t, uint32(0xe87ef360), DeriveSeed("song_2024.mp3"))
	// md5("output/song_2024.mp3") = 8d2a913a...
	assert.Equal(t, uint32(0x8d2a913a), DeriveSeed("output/song_2024.mp3"))
	// md5("") = d41d8cd9...
	assert.Equal(t, uint32(0xd41d8cd9), DeriveSeed(""))
}

func TestDeriveSeed_DistinctIdentifiers(t *testing.T) {
	assert.NotEqual(t, DeriveSeed("song_2024.mp3"), DeriveSeed("output/song_2024.mp3"))
}

func TestParseSeed_Fallback(t *testing.T) {
	assert.Equal(t, FallbackSeed, parseSeed("not-hex!"))
	assert.Equal(t, FallbackSeed, parseSeed(""))
	assert.Equal(t, uint32(0xffffffff), parseSeed("ffffffff"))
	assert.Equal(t, uint32(0), parseSeed("00000000"))
}
