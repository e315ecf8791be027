// Package dice provides the engine's only source of randomness.
// Every component that rolls takes a Roller so tests can replay
// exact sequences.
package dice

import (
	"math/rand"
)

// Roller is the random source consumed by generation, combat, and the
// merchant economy.
type Roller interface {
	// D20 rolls a 20-sided die (1-20).
	D20() int

	// IntBetween returns a uniform integer in [min, max] inclusive.
	IntBetween(min, max int) int

	// Intn returns a uniform integer in [0, n).
	Intn(n int) int

	// Float64 returns a uniform float in [0, 1).
	Float64() float64

	// Uniform returns a uniform float in [min, max).
	Uniform(min, max float64) float64

	// Shuffle randomizes the order of n elements via swap.
	Shuffle(n int, swap func(i, j int))
}

// randRoller is the math/rand backed Roller used outside of tests.
type randRoller struct {
	rng *rand.Rand
}

// NewRoller creates a seeded Roller. The same seed replays the same
// sequence of rolls.
func NewRoller(seed int64) Roller {
	return &randRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *randRoller) D20() int {
	return r.rng.Intn(20) + 1
}

func (r *randRoller) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.rng.Intn(max-min+1)
}

func (r *randRoller) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.rng.Intn(n)
}

func (r *randRoller) Float64() float64 {
	return r.rng.Float64()
}

func (r *randRoller) Uniform(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.rng.Float64()*(max-min)
}

func (r *randRoller) Shuffle(n int, swap func(i, j int)) {
	r.rng.Shuffle(n, swap)
}
