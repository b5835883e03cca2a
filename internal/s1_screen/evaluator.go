// Package s1_screen implements S1: broad screening.
// SSOT: Stage 1 gating logic lives only here.
package s1_screen

import (
	"context"
	"math"

	"github.com/skyfield/exotriage/internal/contracts"
	"github.com/skyfield/exotriage/internal/scoring"
	"github.com/skyfield/exotriage/pkg/logger"
	"github.com/skyfield/exotriage/pkg/seedrand"
)

// Signal-plausibility bands. The score stands in for an AI transit
// classifier: reference candidates always draw from the high band, everyone
// else from a low-skewed distribution, so most of the catalog needs a
// genuinely Earth-like ESI to survive the gate.
const (
	referenceBandLo = 0.95
	referenceBandHi = 0.99

	lowSkewFloor    = 0.1
	lowSkewExponent = 2.5
	lowSkewScale    = 0.85
)

// Evaluator runs the broad screen over single candidates.
type Evaluator struct {
	logger *logger.Logger
}

// New creates a Stage 1 evaluator.
func New(log *logger.Logger) *Evaluator {
	return &Evaluator{logger: log}
}

// Evaluate screens one candidate against the esi and signal thresholds.
//
// The generator is reseeded from the candidate name before any draw, so the
// result is independent of evaluation order and identical on every re-run.
// No shared state: evaluations of different candidates may run concurrently.
func (e *Evaluator) Evaluate(ctx context.Context, cand *contracts.CandidateRecord, thresholds contracts.ThresholdSet) contracts.Stage1Result {
	rng := seedrand.ForName(cand.Name)

	esi := scoring.ESIForCandidate(cand)
	signal := signalPlausibility(rng, cand.Name)

	passed := esi.Aggregate >= thresholds.ESI && signal >= thresholds.Signal

	e.logger.WithFields(map[string]interface{}{
		"candidate": cand.Name,
		"esi":       esi.Aggregate,
		"signal":    signal,
		"passed":    passed,
	}).Debug("Stage 1 screened")

	return contracts.Stage1Result{
		ESI:         esi,
		SignalScore: signal,
		Passed:      passed,
	}
}

// signalPlausibility draws the simulated classifier score in [0, 1).
func signalPlausibility(rng *seedrand.Generator, name string) float64 {
	if contracts.IsReferenceCandidate(name) {
		return rng.InRange(referenceBandLo, referenceBandHi)
	}
	return lowSkewFloor + math.Pow(rng.Next(), lowSkewExponent)*lowSkewScale
}
