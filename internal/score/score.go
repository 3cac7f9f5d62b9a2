// Package score computes canonical puzzle scores and checks claimed
// scores for plausibility.
//
// The same arithmetic runs on the device and on the score service, so a
// claimed score can always be recomputed from its inputs. Submissions
// that stray outside a fixed relative tolerance of the recomputed value
// are rejected as tampered.
package score

import (
	"math"

	"github.com/marcward/gridstreak/internal/puzzle"
)

// Base scores per difficulty.
const (
	BaseEasy   = 100
	BaseMedium = 200
	BaseHard   = 300
)

const (
	// minScore floors every computed score.
	minScore = 10

	// Time multiplier: max(minTimeMultiplier, 2 - t/timeDivisor).
	// Rewards speed, never negative, capped at 2 for t=0.
	minTimeMultiplier = 0.5
	timeDivisor       = 300.0

	// Each hint used decays the score multiplicatively.
	hintDecay = 0.9

	// Plausibility window: claimed score must sit within this relative
	// tolerance of the recomputed canonical score.
	tolerance = 0.10

	// Sane completion-time range in seconds. Anything outside is an
	// implausible submission regardless of the score arithmetic.
	MinCompletionTime = 5
	MaxCompletionTime = 3600
)

// Base returns the base score for a difficulty. Unknown difficulties
// score as medium; the generator never produces one.
func Base(d puzzle.Difficulty) int {
	switch d {
	case puzzle.Easy:
		return BaseEasy
	case puzzle.Hard:
		return BaseHard
	default:
		return BaseMedium
	}
}

// Max returns the per-difficulty ceiling a claimed score may never
// exceed (base at the full time multiplier).
func Max(d puzzle.Difficulty) int {
	return Base(d) * 2
}

// Compute returns the canonical score for a completion.
// completionTime is in seconds.
func Compute(completionTime, hintsUsed int, d puzzle.Difficulty) int {
	base := float64(Base(d))
	timeMultiplier := math.Max(minTimeMultiplier, 2-float64(completionTime)/timeDivisor)
	hintPenalty := math.Pow(hintDecay, float64(hintsUsed))

	s := int(math.Round(base * timeMultiplier * hintPenalty))
	if s < minScore {
		return minScore
	}
	return s
}

// Plausible reports whether a claimed score could have been produced by
// Compute for the same inputs. Future-dated submissions are rejected
// upstream; this check only covers the arithmetic.
func Plausible(claimed, completionTime, hintsUsed int, d puzzle.Difficulty) bool {
	canonical := Compute(completionTime, hintsUsed, d)

	withinTolerance := math.Abs(float64(claimed-canonical)) <= float64(canonical)*tolerance
	underMax := claimed <= Max(d)
	timeRealistic := completionTime >= MinCompletionTime && completionTime <= MaxCompletionTime

	return withinTolerance && underMax && timeRealistic
}
