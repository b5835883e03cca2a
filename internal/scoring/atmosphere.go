package scoring

import (
	"math"

	"github.com/skyfield/exotriage/internal/contracts"
)

// Positive-contribution weights. CO, SO2 and NH3 contribute only through
// the toxic penalty.
const (
	weightH2O = 0.35
	weightO2  = 0.35
	weightCO2 = 0.15
	weightO3  = 0.10
	weightCH4 = 0.05
)

// Gaussian ideals and tolerances.
const (
	o2Ideal      = 21.0
	o2Tolerance  = 5.0
	ch4Ideal     = 0.01
	ch4Tolerance = 0.05
)

// toxicScale normalizes each toxic-gas abundance; 0.1 is the top of the
// declared range for CO, SO2 and NH3.
const toxicScale = 0.1

// AtmosphereSimilarity scores how Earth-like a composition is, in [0, 1].
//
// Independent sub-scores per gas (H2O linear /10, O2 Gaussian around 21,
// CO2 penalized above 0.5, O3 linear /0.1, CH4 Gaussian around 0.01) are
// weighted-summed, then scaled down by the mean toxic-gas loading.
// Pure: identical for live exploration and Stage 2 simulation.
func AtmosphereSimilarity(c contracts.AtmosphereComposition) float64 {
	h2o := clamp01(c[contracts.GasH2O] / 10.0)
	o2 := gaussian(c[contracts.GasO2], o2Ideal, o2Tolerance)
	co2 := 1.0 - math.Min(1.0, c[contracts.GasCO2]*2.0)
	o3 := clamp01(c[contracts.GasO3] / 0.1)
	ch4 := gaussian(c[contracts.GasCH4], ch4Ideal, ch4Tolerance)

	positive := h2o*weightH2O + o2*weightO2 + co2*weightCO2 + o3*weightO3 + ch4*weightCH4

	toxic := (c[contracts.GasCO]/toxicScale +
		c[contracts.GasSO2]/toxicScale +
		c[contracts.GasNH3]/toxicScale) / 3.0

	return clamp01(positive * (1.0 - math.Min(1.0, toxic)*1.5))
}

// gaussian is exp(-((x-ideal)^2) / (2*tol^2)).
func gaussian(x, ideal, tolerance float64) float64 {
	d := x - ideal
	return math.Exp(-(d * d) / (2 * tolerance * tolerance))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
