package contracts

// AnalysisStatus marks whether the simulated-inference subsystem was able to
// evaluate the candidate at all.
type AnalysisStatus string

const (
	// AnalysisEvaluated means both stages ran (Stage 2 only for S1 survivors).
	AnalysisEvaluated AnalysisStatus = "evaluated"

	// AnalysisUnavailable means the evaluation environment could not
	// initialize. Non-fatal: the candidate stays visible in the All view
	// with no scores attached.
	AnalysisUnavailable AnalysisStatus = "unavailable"
)

// ESIScore holds the Earth Similarity Index components for one candidate.
type ESIScore struct {
	RadiusScore float64 `json:"radius_score"`
	FluxScore   float64 `json:"flux_score"`
	Aggregate   float64 `json:"aggregate"`
}

// Stage1Result is the output of the broad screening stage.
type Stage1Result struct {
	ESI         ESIScore `json:"esi"`
	SignalScore float64  `json:"signal_score"`
	Passed      bool     `json:"passed"`
}

// Stage2Status is the tagged state of the refinement stage. Modeled as an
// explicit variant instead of nullable fields so skipped candidates cannot
// be confused with failed ones.
type Stage2Status string

const (
	Stage2NotRun    Stage2Status = "NotRun"
	Stage2Evaluated Stage2Status = "Evaluated"
)

// Stage2Result is the output of the targeted refinement stage.
// EarthSimilarity, HabitabilityLikelihood and Passed are meaningful only
// when Status == Stage2Evaluated.
type Stage2Result struct {
	Status                 Stage2Status `json:"status"`
	EarthSimilarity        float64      `json:"earth_similarity,omitempty"`
	HabitabilityLikelihood float64      `json:"habitability_likelihood,omitempty"`
	Passed                 bool         `json:"passed,omitempty"`
}

// AnalysisResult is the full pipeline output for one candidate.
//
// Invariant: Stage2.Status == Stage2Evaluated iff Stage1.Passed.
type AnalysisResult struct {
	Status AnalysisStatus `json:"status"`
	Stage1 Stage1Result   `json:"stage1"`
	Stage2 Stage2Result   `json:"stage2"`
}

// CandidateState is the per-candidate pipeline state machine:
//
//	Unevaluated → Stage1Failed (terminal)
//	            → Stage2Passed | Stage2Failed (terminal, via Stage 1 pass)
type CandidateState string

const (
	StateUnevaluated  CandidateState = "UNEVALUATED"
	StateStage1Failed CandidateState = "STAGE1_FAILED"
	StateStage2Passed CandidateState = "STAGE2_PASSED"
	StateStage2Failed CandidateState = "STAGE2_FAILED"
	StateUnavailable  CandidateState = "UNAVAILABLE"
)

// State derives the state-machine position from the analysis result.
func (a *AnalysisResult) State() CandidateState {
	if a == nil {
		return StateUnevaluated
	}
	if a.Status == AnalysisUnavailable {
		return StateUnavailable
	}
	if !a.Stage1.Passed {
		return StateStage1Failed
	}
	if a.Stage2.Passed {
		return StateStage2Passed
	}
	return StateStage2Failed
}

// Shortlisted reports whether the candidate cleared both gates.
func (a *AnalysisResult) Shortlisted() bool {
	return a != nil &&
		a.Status == AnalysisEvaluated &&
		a.Stage2.Status == Stage2Evaluated &&
		a.Stage2.Passed
}

// Evaluated pairs a catalog record with its latest analysis. Derived views
// and API payloads are sequences of this pair.
type Evaluated struct {
	Candidate *CandidateRecord `json:"candidate"`
	Analysis  *AnalysisResult  `json:"analysis"`
}
