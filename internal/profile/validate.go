package profile

import (
	"github.com/skyfield/exotriage/internal/contracts"
)

// Validate checks all required profile constraints. Failure aborts startup;
// a service running with a half-valid profile would silently produce wrong
// derived views.
func Validate(p *Profile) error {
	if p.Meta.ProfileID == "" {
		return contracts.ValidationError{Field: "meta.profile_id", Message: "required"}
	}
	if p.Meta.Version == "" {
		return contracts.ValidationError{Field: "meta.version", Message: "required"}
	}

	if err := p.Thresholds.Validate(); err != nil {
		return err
	}

	if p.Pipeline.Parallelism < 1 || p.Pipeline.Parallelism > 64 {
		return contracts.ValidationError{Field: "pipeline.parallelism", Message: "must be in [1, 64]"}
	}
	if p.Pipeline.DebounceMS < 0 || p.Pipeline.DebounceMS > 5000 {
		return contracts.ValidationError{Field: "pipeline.debounce_ms", Message: "must be in [0, 5000]"}
	}

	return nil
}
