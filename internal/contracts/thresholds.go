package contracts

import (
	"fmt"
	"math"
)

// ThresholdKey identifies one of the three pipeline gates.
type ThresholdKey string

const (
	ThresholdESI          ThresholdKey = "esi"
	ThresholdSignal       ThresholdKey = "signal"
	ThresholdHabitability ThresholdKey = "habitability"
)

// ThresholdSet holds the three gate thresholds, each in [0, 1].
// Single writer (user input via the session store); every accepted change
// triggers a full pipeline re-evaluation.
type ThresholdSet struct {
	ESI          float64 `json:"esi" yaml:"esi"`
	Signal       float64 `json:"signal" yaml:"signal"`
	Habitability float64 `json:"habitability" yaml:"habitability"`
}

// DefaultThresholds returns the dashboard defaults.
func DefaultThresholds() ThresholdSet {
	return ThresholdSet{
		ESI:          0.80,
		Signal:       0.50,
		Habitability: 0.60,
	}
}

// ValidateThreshold checks a single threshold value. The UI-facing contract:
// reject if NaN or outside [0, 1]; the caller retains the prior value.
func ValidateThreshold(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return ValidationError{Field: "threshold", Message: fmt.Sprintf("must be in [0, 1], got %v", v)}
	}
	return nil
}

// Validate checks all three thresholds.
func (t ThresholdSet) Validate() error {
	for _, f := range []struct {
		key ThresholdKey
		val float64
	}{
		{ThresholdESI, t.ESI},
		{ThresholdSignal, t.Signal},
		{ThresholdHabitability, t.Habitability},
	} {
		if math.IsNaN(f.val) || f.val < 0 || f.val > 1 {
			return ValidationError{Field: string(f.key), Message: fmt.Sprintf("must be in [0, 1], got %v", f.val)}
		}
	}
	return nil
}

// Get returns the threshold for key.
func (t ThresholdSet) Get(key ThresholdKey) (float64, error) {
	switch key {
	case ThresholdESI:
		return t.ESI, nil
	case ThresholdSignal:
		return t.Signal, nil
	case ThresholdHabitability:
		return t.Habitability, nil
	default:
		return 0, ValidationError{Field: string(key), Message: "unknown threshold key"}
	}
}

// With returns a copy of the set with key replaced by value. The value is
// validated; on failure the original set is returned unchanged.
func (t ThresholdSet) With(key ThresholdKey, value float64) (ThresholdSet, error) {
	if err := ValidateThreshold(value); err != nil {
		return t, ValidationError{Field: string(key), Message: err.Error()}
	}
	switch key {
	case ThresholdESI:
		t.ESI = value
	case ThresholdSignal:
		t.Signal = value
	case ThresholdHabitability:
		t.Habitability = value
	default:
		return t, ValidationError{Field: string(key), Message: "unknown threshold key"}
	}
	return t, nil
}

// ValidationError reports a rejected input value. Validation failures never
// propagate into the pipeline; the boundary rejects and keeps the prior value.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
