// Package seedrand provides a deterministic linear-congruential PRNG.
//
// Every stochastic computation in the evaluation pipeline draws from a
// Generator reseeded from the candidate name, so results are independent
// of evaluation order and identical across re-runs and platforms.
package seedrand

import "math"

// LCG parameters (Numerical Recipes). Modulus is 2^32 via uint32 wraparound.
const (
	multiplier uint32 = 1664525
	increment  uint32 = 1013904223
)

// Generator is a seedable linear-congruential generator.
// SSOT: all simulated-inference randomness goes through this type.
//
// A Generator is NOT safe for concurrent use. Parallel evaluations must
// each construct their own instance (arena-of-one); sharing one generator
// across goroutines would destroy determinism.
type Generator struct {
	state uint32
}

// New creates a Generator seeded with seed.
func New(seed uint32) *Generator {
	return &Generator{state: seed}
}

// Reseed resets the internal state to seed.
func (g *Generator) Reseed(seed uint32) {
	g.state = seed
}

// Next advances the state and returns a float in [0, 1).
// state = (state*1664525 + 1013904223) mod 2^32
func (g *Generator) Next() float64 {
	g.state = g.state*multiplier + increment
	return float64(g.state) / 4294967296.0
}

// InRange returns a uniform draw in [lo, hi).
func (g *Generator) InRange(lo, hi float64) float64 {
	return lo + g.Next()*(hi-lo)
}

// StringHash derives a reproducible nonnegative seed from a string using a
// rolling polynomial hash (hash = hash*31 + charCode) with 32-bit signed
// wraparound, then the absolute value. The wraparound is the contract:
// it must match bit-for-bit on every platform.
func StringHash(s string) uint32 {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	// abs(MinInt32) overflows; keep the wrapped magnitude in that case.
	if h < 0 && h != math.MinInt32 {
		h = -h
	}
	return uint32(h)
}

// ForName returns a fresh Generator seeded from a candidate name.
func ForName(name string) *Generator {
	return New(StringHash(name))
}
