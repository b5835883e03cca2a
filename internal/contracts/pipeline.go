package contracts

// Pipeline stage definitions (SSOT).
// All logs, run results and API payloads use these constants.
//
// Pipeline flow:
//
//	S1 → S2
//	Screen  Refine
//
// S1 broad-screens the full catalog (ESI + signal plausibility); S2 runs
// targeted refinement (atmosphere inference + habitability) over exactly the
// S1 survivors.

// Stage represents a pipeline stage.
type Stage string

const (
	// StageScreen S1: broad screening.
	// Responsibility: ESI scoring, simulated signal-plausibility, esi/signal gate.
	// Location: internal/s1_screen/
	StageScreen Stage = "S1_SCREEN"

	// StageRefine S2: targeted refinement.
	// Responsibility: simulated atmosphere inference, habitability gate.
	// Location: internal/s2_refine/
	StageRefine Stage = "S2_REFINE"
)

// String returns the stage name.
func (s Stage) String() string {
	return string(s)
}

// ShortName returns the abbreviated stage name ("S1", "S2").
func (s Stage) ShortName() string {
	switch s {
	case StageScreen:
		return "S1"
	case StageRefine:
		return "S2"
	default:
		return "UNKNOWN"
	}
}

// Reference candidates are intentionally special-cased inputs to the
// simulated-inference stages: they draw signal plausibility from the high
// band and Earth-like atmospheres, so the default demo always produces a
// non-empty shortlist. This is scripted demonstration behavior, not a bug;
// do not generalize it away.
var referenceCandidates = map[string]bool{
	"KIC-8462852 b": true,
	"KOI-701.03":    true,
}

// IsReferenceCandidate reports whether name is one of the scripted
// reference pass-through candidates.
func IsReferenceCandidate(name string) bool {
	return referenceCandidates[name]
}

// ReferenceCandidateNames returns the scripted reference candidate names.
func ReferenceCandidateNames() []string {
	return []string{"KIC-8462852 b", "KOI-701.03"}
}

// StatusSummary is the dashboard status-bar payload.
type StatusSummary struct {
	Total           int `json:"total"`
	Stage1Passed    int `json:"stage1_passed"`
	Stage2Evaluated int `json:"stage2_evaluated"`
	Shortlisted     int `json:"shortlisted"`
}
