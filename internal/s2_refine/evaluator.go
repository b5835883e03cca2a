// Package s2_refine implements S2: targeted refinement.
// SSOT: Stage 2 atmosphere synthesis and the habitability gate live only here.
package s2_refine

import (
	"context"

	"github.com/skyfield/exotriage/internal/contracts"
	"github.com/skyfield/exotriage/internal/scoring"
	"github.com/skyfield/exotriage/pkg/logger"
	"github.com/skyfield/exotriage/pkg/seedrand"
)

// Base habitability-likelihood bands. Reference candidates are scripted to
// land in the high band; the final likelihood blends the base with the
// atmospheric earth-similarity 60/40.
const (
	referenceBaseLo = 0.90
	referenceBaseHi = 0.95

	otherBaseLo = 0.2
	otherBaseHi = 0.58

	baseWeight       = 0.6
	similarityWeight = 0.4
)

// referenceJitterFrac is the half-width of the reference composition band,
// as a fraction of each species' valid-range span.
const referenceJitterFrac = 0.02

// Evaluator runs targeted refinement over Stage 1 survivors.
type Evaluator struct {
	logger *logger.Logger
}

// New creates a Stage 2 evaluator.
func New(log *logger.Logger) *Evaluator {
	return &Evaluator{logger: log}
}

// Evaluate refines one candidate against the habitability threshold.
// Precondition: the candidate passed Stage 1.
//
// The generator is reseeded from the candidate name, NOT continued from
// Stage 1's stream: each stage owns an independent reproducible sequence,
// so the stages stay order-independent and individually replayable.
func (e *Evaluator) Evaluate(ctx context.Context, cand *contracts.CandidateRecord, thresholds contracts.ThresholdSet) contracts.Stage2Result {
	rng := seedrand.ForName(cand.Name)

	composition := synthesizeComposition(rng, cand.Name)
	earthSim := scoring.AtmosphereSimilarity(composition)

	var base float64
	if contracts.IsReferenceCandidate(cand.Name) {
		base = rng.InRange(referenceBaseLo, referenceBaseHi)
	} else {
		base = rng.InRange(otherBaseLo, otherBaseHi)
	}

	likelihood := base*baseWeight + earthSim*similarityWeight
	passed := likelihood >= thresholds.Habitability

	e.logger.WithFields(map[string]interface{}{
		"candidate":        cand.Name,
		"earth_similarity": earthSim,
		"habitability":     likelihood,
		"passed":           passed,
	}).Debug("Stage 2 refined")

	return contracts.Stage2Result{
		Status:                 contracts.Stage2Evaluated,
		EarthSimilarity:        earthSim,
		HabitabilityLikelihood: likelihood,
		Passed:                 passed,
	}
}

// synthesizeComposition draws the simulated inferred atmosphere. Reference
// candidates get Earth-centered values with small symmetric jitter; everyone
// else draws each gas uniformly across its declared range. One draw per gas
// in canonical species order keeps the call sequence fixed.
func synthesizeComposition(rng *seedrand.Generator, name string) contracts.AtmosphereComposition {
	comp := make(contracts.AtmosphereComposition, 8)

	if contracts.IsReferenceCandidate(name) {
		earth := contracts.EarthComposition()
		for _, gas := range contracts.AllSpecies() {
			r := contracts.SpeciesRange(gas)
			jitter := (rng.Next() - 0.5) * 2 * referenceJitterFrac * (r.Max - r.Min)
			comp[gas] = clampToRange(earth[gas]+jitter, r)
		}
		return comp
	}

	for _, gas := range contracts.AllSpecies() {
		r := contracts.SpeciesRange(gas)
		comp[gas] = rng.InRange(r.Min, r.Max)
	}
	return comp
}

func clampToRange(v float64, r contracts.GasRange) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}
