// Package scoring holds the pure similarity scorers.
// SSOT: ESI and atmospheric similarity formulas live here and nowhere else;
// the Stage 2 simulation and the live exploration endpoint call the same code.
package scoring

import (
	"math"

	"github.com/skyfield/exotriage/internal/contracts"
)

// ESI weight exponents (Schulze-Makuch interior/surface split, reduced to
// the two observables the catalog always carries).
const (
	esiRadiusWeight = 0.57
	esiFluxWeight   = 1.07
)

// ESI computes the Earth Similarity Index from planet radius (Earth radii)
// and insolation flux (Earth flux). Both reference values are 1.0; the
// aggregate is the geometric mean of the two components.
//
// Inputs below physical bounds are not rejected: the component formula is
// defined for any nonnegative x and stays in [0, 1].
func ESI(radiusEarth, fluxEarth float64) contracts.ESIScore {
	r := esiComponent(radiusEarth, esiRadiusWeight)
	f := esiComponent(fluxEarth, esiFluxWeight)
	return contracts.ESIScore{
		RadiusScore: r,
		FluxScore:   f,
		Aggregate:   math.Sqrt(r * f),
	}
}

// ESIForCandidate computes ESI with missing observables defaulted to 1.0.
func ESIForCandidate(c *contracts.CandidateRecord) contracts.ESIScore {
	return ESI(c.RadiusOrDefault(), c.FluxOrDefault())
}

// esiComponent is (1 - |x - x0| / (x + x0))^w with x0 = 1.
func esiComponent(x, weight float64) float64 {
	denom := x + 1.0
	if denom == 0 {
		// Unreachable for nonnegative x, guarded anyway.
		return 0
	}
	base := 1.0 - math.Abs(x-1.0)/denom
	if base < 0 {
		base = 0
	}
	return math.Pow(base, weight)
}
