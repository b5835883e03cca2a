package contracts

// CandidateRecord represents one exoplanet candidate from the survey catalog.
// SSOT: catalog row shape shared by every pipeline stage and the API layer.
//
// Records are created once at catalog load and never mutated; analysis output
// is carried separately in AnalysisResult, keyed by Name.
type CandidateRecord struct {
	// Name is the unique catalog key (e.g. "Kepler-452 b").
	Name string `json:"name" validate:"required"`

	// Physical observables. Nil means the survey did not report the value.
	RadiusEarth    *float64 `json:"radius_earth,omitempty" validate:"omitempty,gte=0"`
	InsolationFlux *float64 `json:"insolation_flux,omitempty" validate:"omitempty,gte=0"`
	PeriodDays     *float64 `json:"period_days,omitempty" validate:"omitempty,gte=0"`
	EqTempK        *float64 `json:"eq_temp_k,omitempty" validate:"omitempty,gte=0"`
	MassEarth      *float64 `json:"mass_earth,omitempty" validate:"omitempty,gte=0"`
	DensityGCC     *float64 `json:"density_g_cm3,omitempty" validate:"omitempty,gte=0"`
	SemiMajorAU    *float64 `json:"semi_major_au,omitempty" validate:"omitempty,gte=0"`

	// Stellar observables
	StarTempK           *float64 `json:"star_temp_k,omitempty" validate:"omitempty,gte=0"`
	StarRadiusSolar     *float64 `json:"star_radius_solar,omitempty" validate:"omitempty,gte=0"`
	StarMassSolar       *float64 `json:"star_mass_solar,omitempty" validate:"omitempty,gte=0"`
	StarLuminositySolar *float64 `json:"star_luminosity_solar,omitempty" validate:"omitempty,gte=0"`

	// Provenance metadata
	DiscoveryYear   *int   `json:"discovery_year,omitempty" validate:"omitempty,gte=1990"`
	DiscoveryMethod string `json:"discovery_method,omitempty"`
	Facility        string `json:"facility,omitempty"`
}

// Missing radius and flux default to the Earth reference value (1.0) in the
// similarity formulas. Other absent fields are simply not displayed.
const defaultObservable = 1.0

// RadiusOrDefault returns the planet radius in Earth radii, defaulting to 1.0.
func (c *CandidateRecord) RadiusOrDefault() float64 {
	if c.RadiusEarth == nil {
		return defaultObservable
	}
	return *c.RadiusEarth
}

// FluxOrDefault returns the insolation flux relative to Earth, defaulting to 1.0.
func (c *CandidateRecord) FluxOrDefault() float64 {
	if c.InsolationFlux == nil {
		return defaultObservable
	}
	return *c.InsolationFlux
}
