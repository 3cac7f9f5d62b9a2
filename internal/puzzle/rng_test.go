package puzzle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRand_DeterministicSequence(t *testing.T) {
	a := NewRand("35817426c989fc52")
	b := NewRand("35817426c989fc52")

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Next(), b.Next(), "draw %d diverged", i)
	}
}

func TestRand_KnownDraws(t *testing.T) {
	// First draws for state 0x35817426 under the 9301/49297/233280 LCG.
	r := NewRand("35817426")

	want := []float64{
		0.7242069615912209,
		0.060270919067215364,
		0.791139403292181,
		0.5989111796982167,
		0.6842035322359397,
	}
	for i, w := range want {
		assert.InDelta(t, w, r.Next(), 1e-15, "draw %d", i)
	}
}

func TestRand_SeedPrefixOnly(t *testing.T) {
	// Only the first 8 hex digits seed the generator.
	a := NewRand("deadbeef" + "0000")
	b := NewRand("deadbeef" + "ffff")
	assert.Equal(t, a.Next(), b.Next())
}

func TestRand_IntN_Bounds(t *testing.T) {
	r := NewRand("0badcafe")
	for i := 0; i < 1000; i++ {
		v := r.IntN(3, 7)
		require.GreaterOrEqual(t, v, 3)
		require.LessOrEqual(t, v, 7)
	}
}

func TestRand_Shuffle_IsPermutation(t *testing.T) {
	r := NewRand("12345678")
	in := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	out := Shuffle(r, in)

	assert.ElementsMatch(t, in, out)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, in, "input must not be mutated")
}

func TestRand_Shuffle_Deterministic(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e"}
	first := Shuffle(NewRand("cafe0001"), in)
	second := Shuffle(NewRand("cafe0001"), in)
	assert.Equal(t, first, second)
}

func TestSeed_KnownDigest(t *testing.T) {
	assert.Equal(t,
		"35817426c989fc52522d84ec736ba2be437b0cb0334f8477b2c19927737f102c",
		Seed("2024-01-15", "test-secret"))
}

func TestSeed_DistinctDates(t *testing.T) {
	assert.NotEqual(t, Seed("2024-01-15", "k"), Seed("2024-01-16", "k"))
	assert.NotEqual(t, Seed("2024-01-15", "k1"), Seed("2024-01-15", "k2"))
}

func TestFallbackSeed_DeterministicAndSized(t *testing.T) {
	a := FallbackSeed("2024-01-15", "test-secret")
	b := FallbackSeed("2024-01-15", "test-secret")

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	// 32-bit rolling hash of "2024-01-15-test-secret", left-padded.
	assert.Equal(t, strings.Repeat("0", 56)+"205db81f", a)
}

func TestFallbackSeed_SeedsGenerator(t *testing.T) {
	// The fallback must still drive a usable draw sequence.
	r := NewRand(FallbackSeed("2024-01-15", "test-secret"))
	v := r.Next()
	assert.GreaterOrEqual(t, v, 0.0)
	assert.Less(t, v, 1.0)
}
