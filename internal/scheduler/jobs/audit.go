// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"
	"fmt"

	"github.com/skyfield/exotriage/internal/session"
	"github.com/skyfield/exotriage/pkg/logger"
)

// ReproducibilityAudit periodically re-runs the pipeline and compares run
// fingerprints: with an unchanged catalog and thresholds, two runs must be
// bit-identical. A mismatch means nondeterminism leaked into an evaluator
// and is reported as a job failure.
type ReproducibilityAudit struct {
	store    *session.Store
	schedule string
	logger   *logger.Logger
}

// NewReproducibilityAudit creates the audit job.
func NewReproducibilityAudit(store *session.Store, schedule string, log *logger.Logger) *ReproducibilityAudit {
	return &ReproducibilityAudit{
		store:    store,
		schedule: schedule,
		logger:   log,
	}
}

// Name implements scheduler.Job.
func (j *ReproducibilityAudit) Name() string {
	return "reproducibility_audit"
}

// Schedule implements scheduler.Job.
func (j *ReproducibilityAudit) Schedule() string {
	return j.schedule
}

// Run implements scheduler.Job.
func (j *ReproducibilityAudit) Run(ctx context.Context) error {
	prev := j.store.Latest()
	if prev == nil || prev.Unavailable {
		// Nothing committed to compare against yet.
		return nil
	}

	cur, err := j.store.RunNow(ctx)
	if err != nil {
		return fmt.Errorf("audit re-run: %w", err)
	}

	if cur.Thresholds != prev.Thresholds {
		// A threshold write raced the audit; the comparison is meaningless.
		j.logger.Debug("Audit skipped: thresholds changed mid-flight")
		return nil
	}

	if cur.Fingerprint != prev.Fingerprint {
		return fmt.Errorf("determinism drift: run %s fingerprint %s != run %s fingerprint %s",
			prev.RunID, prev.Fingerprint, cur.RunID, cur.Fingerprint)
	}

	j.logger.WithFields(map[string]interface{}{
		"fingerprint": cur.Fingerprint,
		"run_id":      cur.RunID,
	}).Info("Reproducibility audit passed")

	return nil
}
