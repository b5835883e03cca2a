package contracts

import (
	"math"
	"testing"
)

func TestValidateThreshold(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"mid", 0.5, false},
		{"below range", -0.1, true},
		{"above range", 1.1, true},
		{"nan", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThreshold(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateThreshold(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestThresholdSet_With(t *testing.T) {
	base := DefaultThresholds()

	updated, err := base.With(ThresholdESI, 0.9)
	if err != nil {
		t.Fatalf("With(esi, 0.9) unexpected error: %v", err)
	}
	if updated.ESI != 0.9 {
		t.Errorf("ESI = %v, want 0.9", updated.ESI)
	}
	if updated.Signal != base.Signal || updated.Habitability != base.Habitability {
		t.Error("With must not touch other thresholds")
	}
	if base.ESI != 0.80 {
		t.Error("With must not mutate the receiver")
	}
}

func TestThresholdSet_WithRejectsInvalid(t *testing.T) {
	base := DefaultThresholds()

	for _, v := range []float64{-0.1, 1.1, math.NaN()} {
		got, err := base.With(ThresholdSignal, v)
		if err == nil {
			t.Fatalf("With(signal, %v) expected error", v)
		}
		if got != base {
			t.Errorf("rejected write must return the unchanged set, got %+v", got)
		}
	}

	if _, err := base.With("unknown", 0.5); err == nil {
		t.Fatal("unknown key must be rejected")
	}
}

func TestThresholdSet_Get(t *testing.T) {
	set := ThresholdSet{ESI: 0.1, Signal: 0.2, Habitability: 0.3}

	for key, want := range map[ThresholdKey]float64{
		ThresholdESI:          0.1,
		ThresholdSignal:       0.2,
		ThresholdHabitability: 0.3,
	} {
		got, err := set.Get(key)
		if err != nil {
			t.Fatalf("Get(%s) unexpected error: %v", key, err)
		}
		if got != want {
			t.Errorf("Get(%s) = %v, want %v", key, got, want)
		}
	}

	if _, err := set.Get("bogus"); err == nil {
		t.Fatal("Get(bogus) expected error")
	}
}

func TestDefaultThresholds(t *testing.T) {
	d := DefaultThresholds()
	if d.ESI != 0.80 || d.Signal != 0.50 || d.Habitability != 0.60 {
		t.Errorf("unexpected defaults: %+v", d)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}
