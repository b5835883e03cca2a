package contracts

import "fmt"

// GasSpecies identifies one of the eight modeled atmosphere constituents.
type GasSpecies string

const (
	GasH2O GasSpecies = "H2O"
	GasO2  GasSpecies = "O2"
	GasCO2 GasSpecies = "CO2"
	GasCH4 GasSpecies = "CH4"
	GasO3  GasSpecies = "O3"
	GasCO  GasSpecies = "CO"
	GasSO2 GasSpecies = "SO2"
	GasNH3 GasSpecies = "NH3"
)

// AllSpecies returns the closed species set in canonical order.
// The order is part of the determinism contract: Stage 2 draws one random
// value per gas in exactly this sequence.
func AllSpecies() []GasSpecies {
	return []GasSpecies{GasH2O, GasO2, GasCO2, GasCH4, GasO3, GasCO, GasSO2, GasNH3}
}

// GasRange is the declared valid relative-abundance range for a species.
type GasRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SpeciesRange returns the declared valid range for a species. The ranges
// bound both the exploration sliders and Stage 2's synthesized compositions.
func SpeciesRange(gas GasSpecies) GasRange {
	switch gas {
	case GasH2O:
		return GasRange{Min: 0, Max: 10}
	case GasO2:
		return GasRange{Min: 0, Max: 30}
	case GasCO2:
		return GasRange{Min: 0, Max: 1}
	case GasCH4, GasO3, GasCO, GasSO2, GasNH3:
		return GasRange{Min: 0, Max: 0.1}
	default:
		return GasRange{}
	}
}

// AtmosphereComposition maps each species to a nonnegative relative abundance.
type AtmosphereComposition map[GasSpecies]float64

// EarthComposition returns the reference Earth-like composition.
func EarthComposition() AtmosphereComposition {
	return AtmosphereComposition{
		GasH2O: 1,
		GasO2:  21,
		GasCO2: 0.04,
		GasCH4: 0.01,
		GasO3:  0.01,
		GasCO:  0,
		GasSO2: 0,
		GasNH3: 0,
	}
}

// Validate checks that every species is known and within its declared range.
func (c AtmosphereComposition) Validate() error {
	known := make(map[GasSpecies]bool, 8)
	for _, gas := range AllSpecies() {
		known[gas] = true
	}
	for gas, v := range c {
		if !known[gas] {
			return ValidationError{Field: string(gas), Message: "unknown gas species"}
		}
		r := SpeciesRange(gas)
		if v < r.Min || v > r.Max {
			return ValidationError{
				Field:   string(gas),
				Message: fmt.Sprintf("abundance %v outside valid range [%v, %v]", v, r.Min, r.Max),
			}
		}
	}
	return nil
}
