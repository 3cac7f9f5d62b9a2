package puzzle

import "strconv"

// Rand is a deterministic pseudo-random generator parameterized by a hex
// seed string. It uses a small linear congruential generator so that the
// same seed produces the same draw sequence on every platform.
//
// The modulus is small enough that every intermediate product stays well
// inside float64's exact-integer range, which keeps the sequence
// bit-identical to clients that run the same recurrence in floating
// point.
//
// Not security-grade. Seeds come from a keyed digest (see Seed); the
// generator only needs to be reproducible, not unpredictable.
type Rand struct {
	state int64
}

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// NewRand creates a generator seeded from the first 8 hex digits of seed.
// Non-hex input degenerates to a zero state; the sequence is still
// deterministic.
func NewRand(seed string) *Rand {
	if len(seed) > 8 {
		seed = seed[:8]
	}
	state, err := strconv.ParseInt(seed, 16, 64)
	if err != nil {
		state = 0
	}
	return &Rand{state: state % lcgModulus}
}

// Next returns the next draw in [0, 1).
func (r *Rand) Next() float64 {
	r.state = (r.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(r.state) / lcgModulus
}

// IntN returns a uniform draw in [min, max] inclusive.
func (r *Rand) IntN(min, max int) int {
	return int(r.Next()*float64(max-min+1)) + min
}

// Bool returns a single boolean draw.
func (r *Rand) Bool() bool {
	return r.Next() > 0.5
}

// Shuffle returns a seeded Fisher-Yates permutation of s. The input
// slice is not modified.
func Shuffle[T any](r *Rand, s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	for i := len(out) - 1; i > 0; i-- {
		j := int(r.Next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
