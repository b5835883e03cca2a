// Package pipeline coordinates the two-stage evaluation over the catalog and
// maintains the derived views.
// SSOT: pipeline orchestration lives only here.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/skyfield/exotriage/internal/catalog"
	"github.com/skyfield/exotriage/internal/contracts"
	"github.com/skyfield/exotriage/internal/profile"
	"github.com/skyfield/exotriage/internal/s1_screen"
	"github.com/skyfield/exotriage/internal/s2_refine"
	"github.com/skyfield/exotriage/pkg/logger"
)

// Orchestrator runs the full pipeline: Stage 1 over every candidate, Stage 2
// over exactly the Stage 1 survivors, then the four derived views.
//
// Runs are idempotent: per-candidate seeding makes results independent of
// scheduling, so re-running with unchanged thresholds reproduces identical
// AnalysisResults bit for bit.
type Orchestrator struct {
	catalog *catalog.Catalog
	stage1  *s1_screen.Evaluator
	stage2  *s2_refine.Evaluator

	parallelism int
	profileHash string

	// unavailable marks the degraded mode of a failed evaluation-environment
	// init: candidates stay listed, every analysis is marked unavailable.
	unavailable bool
	reason      string

	logger *logger.Logger
}

// RunResult holds the output of one complete pipeline run.
type RunResult struct {
	RunID       string                  `json:"run_id"`
	ProfileHash string                  `json:"profile_hash"`
	Thresholds  contracts.ThresholdSet  `json:"thresholds"`
	StartedAt   time.Time               `json:"started_at"`
	Duration    time.Duration           `json:"duration"`
	Results     []contracts.Evaluated   `json:"results"` // catalog order
	Views       Views                   `json:"-"`
	Summary     contracts.StatusSummary `json:"summary"`

	// Fingerprint is a sha256 over thresholds + analysis results, used by
	// the reproducibility audit to detect drift between identical runs.
	Fingerprint string `json:"fingerprint"`

	Unavailable bool   `json:"unavailable,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// NewOrchestrator creates an orchestrator from a loaded catalog and profile.
func NewOrchestrator(cat *catalog.Catalog, prof *profile.Profile, log *logger.Logger) (*Orchestrator, error) {
	hash, err := profile.Hash(prof)
	if err != nil {
		return nil, fmt.Errorf("hash profile: %w", err)
	}

	return &Orchestrator{
		catalog:     cat,
		stage1:      s1_screen.New(log),
		stage2:      s2_refine.New(log),
		parallelism: prof.Pipeline.Parallelism,
		profileHash: hash,
		logger:      log,
	}, nil
}

// NewUnavailable creates an orchestrator in degraded mode: the evaluation
// environment failed to initialize, so every run marks all candidates
// unavailable and only the All view is populated. Non-fatal by design.
func NewUnavailable(cat *catalog.Catalog, reason string, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		catalog:     cat,
		unavailable: true,
		reason:      reason,
		logger:      log,
	}
}

// Run executes the full pipeline with the given thresholds.
func (o *Orchestrator) Run(ctx context.Context, thresholds contracts.ThresholdSet) (*RunResult, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("thresholds: %w", err)
	}

	startedAt := time.Now()
	result := &RunResult{
		RunID:       uuid.NewString(),
		ProfileHash: o.profileHash,
		Thresholds:  thresholds,
		StartedAt:   startedAt,
	}

	o.logger.WithFields(map[string]interface{}{
		"run_id":     result.RunID,
		"candidates": o.catalog.Count(),
		"thresholds": thresholds,
	}).Info("Starting pipeline run")

	if o.unavailable {
		o.runUnavailable(result)
		result.Duration = time.Since(startedAt)
		return result, nil
	}

	records := o.catalog.Records()
	analyses := make([]*contracts.AnalysisResult, len(records))

	// S1: broad screen, every candidate. Evaluations are mutually
	// independent and each reseeds its own generator, so the bounded
	// fan-out cannot affect determinism.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			analyses[i] = &contracts.AnalysisResult{
				Status: contracts.AnalysisEvaluated,
				Stage1: o.stage1.Evaluate(gctx, rec, thresholds),
				Stage2: contracts.Stage2Result{Status: contracts.Stage2NotRun},
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", contracts.StageScreen, err)
	}

	// S2: targeted refinement, survivors only.
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)
	for i, rec := range records {
		if !analyses[i].Stage1.Passed {
			continue
		}
		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			analyses[i].Stage2 = o.stage2.Evaluate(gctx, rec, thresholds)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", contracts.StageRefine, err)
	}

	result.Results = make([]contracts.Evaluated, len(records))
	for i, rec := range records {
		result.Results[i] = contracts.Evaluated{Candidate: rec, Analysis: analyses[i]}
	}

	result.Views = buildViews(result.Results)
	result.Summary = result.Views.Summarize()
	result.Duration = time.Since(startedAt)

	fp, err := fingerprint(result)
	if err != nil {
		return nil, fmt.Errorf("fingerprint run: %w", err)
	}
	result.Fingerprint = fp

	o.logger.WithFields(map[string]interface{}{
		"run_id":           result.RunID,
		"duration_ms":      result.Duration.Milliseconds(),
		"stage1_passed":    result.Summary.Stage1Passed,
		"stage2_evaluated": result.Summary.Stage2Evaluated,
		"shortlisted":      result.Summary.Shortlisted,
	}).Info("Pipeline run completed")

	return result, nil
}

// runUnavailable fills a degraded result: all candidates visible, no scores,
// gated views empty, zero passes in the summary.
func (o *Orchestrator) runUnavailable(result *RunResult) {
	records := o.catalog.Records()
	result.Unavailable = true
	result.Reason = o.reason
	result.Results = make([]contracts.Evaluated, len(records))
	for i, rec := range records {
		result.Results[i] = contracts.Evaluated{
			Candidate: rec,
			Analysis: &contracts.AnalysisResult{
				Status: contracts.AnalysisUnavailable,
				Stage2: contracts.Stage2Result{Status: contracts.Stage2NotRun},
			},
		}
	}
	result.Views = buildViews(result.Results)
	result.Summary = result.Views.Summarize()

	o.logger.WithField("reason", o.reason).Warn("Pipeline ran in degraded mode: evaluation unavailable")
}

// Catalog exposes the loaded catalog to the API layer.
func (o *Orchestrator) Catalog() *catalog.Catalog {
	return o.catalog
}

// Unavailable reports degraded mode and its reason.
func (o *Orchestrator) Unavailable() (bool, string) {
	return o.unavailable, o.reason
}

// fingerprint hashes thresholds plus per-candidate analyses (canonical JSON,
// catalog order). Two runs with the same catalog and thresholds must produce
// the same fingerprint.
func fingerprint(r *RunResult) (string, error) {
	canonical := struct {
		Thresholds contracts.ThresholdSet `json:"thresholds"`
		Results    []contracts.Evaluated  `json:"results"`
	}{r.Thresholds, r.Results}

	jsonBytes, err := json.Marshal(canonical)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
