// Package profile defines the YAML evaluation profile: default thresholds
// and pipeline tuning for a triage session.
package profile

import "github.com/skyfield/exotriage/internal/contracts"

// Profile is the full evaluation profile for the triage pipeline.
type Profile struct {
	Meta       Meta                   `yaml:"meta" json:"meta"`
	Thresholds contracts.ThresholdSet `yaml:"thresholds" json:"thresholds"`
	Pipeline   Pipeline               `yaml:"pipeline" json:"pipeline"`
}

// Meta identifies the profile for run snapshots.
type Meta struct {
	ProfileID string `yaml:"profile_id" json:"profile_id"`
	Version   string `yaml:"version" json:"version"`
}

// Pipeline holds orchestration tuning.
type Pipeline struct {
	// Parallelism bounds the number of concurrent stage evaluations.
	Parallelism int `yaml:"parallelism" json:"parallelism"`

	// DebounceMS is the settling interval for threshold writes: rapid
	// successive writes coalesce into at most one pipeline run per interval.
	DebounceMS int `yaml:"debounce_ms" json:"debounce_ms"`

	// AuditSchedule is an optional cron spec (with seconds) for the
	// periodic reproducibility audit. Empty disables the job.
	AuditSchedule string `yaml:"audit_schedule" json:"audit_schedule"`
}

// Default returns the built-in profile used when no YAML file is supplied.
func Default() *Profile {
	return &Profile{
		Meta: Meta{
			ProfileID: "exotriage_default",
			Version:   "1",
		},
		Thresholds: contracts.DefaultThresholds(),
		Pipeline: Pipeline{
			Parallelism:   8,
			DebounceMS:    150,
			AuditSchedule: "0 */10 * * * *",
		},
	}
}
