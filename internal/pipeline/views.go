package pipeline

import (
	"sort"
	"strings"

	"github.com/skyfield/exotriage/internal/contracts"
)

// View identifies one of the four derived views over the catalog.
type View string

const (
	ViewAll             View = "all"
	ViewStage1Passed    View = "stage1_passed"
	ViewStage2Evaluated View = "stage2_evaluated"
	ViewShortlist       View = "shortlist"
)

// ParseView validates a view name from the API layer.
func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewAll, ViewStage1Passed, ViewStage2Evaluated, ViewShortlist:
		return View(s), nil
	default:
		return "", contracts.ValidationError{Field: "view", Message: "unknown view " + s}
	}
}

// SortKey identifies a sortable field of the derived views.
type SortKey string

const (
	SortByName         SortKey = "name"
	SortByESI          SortKey = "esi"
	SortBySignal       SortKey = "signal"
	SortByHabitability SortKey = "habitability"
)

// ParseSortKey validates a sort key from the API layer.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortByName, SortByESI, SortBySignal, SortByHabitability:
		return SortKey(s), nil
	default:
		return "", contracts.ValidationError{Field: "sort", Message: "unknown sort key " + s}
	}
}

// Views holds the four derived views, each a monotone filter over the full
// result set: Shortlist ⊆ Stage2Evaluated ⊆ Stage1Passed ⊆ All.
type Views struct {
	All             []contracts.Evaluated
	Stage1Passed    []contracts.Evaluated
	Stage2Evaluated []contracts.Evaluated
	Shortlist       []contracts.Evaluated
}

// buildViews recomputes all four views from a run's results.
// Stage2Evaluated filters on stage2 status; by the pipeline invariant it
// always equals Stage1Passed, but it is derived from its own predicate so
// the invariant stays observable rather than assumed.
func buildViews(results []contracts.Evaluated) Views {
	v := Views{All: results}
	for _, e := range results {
		if e.Analysis.Status != contracts.AnalysisEvaluated {
			continue
		}
		if e.Analysis.Stage1.Passed {
			v.Stage1Passed = append(v.Stage1Passed, e)
		}
		if e.Analysis.Stage2.Status == contracts.Stage2Evaluated {
			v.Stage2Evaluated = append(v.Stage2Evaluated, e)
		}
		if e.Analysis.Shortlisted() {
			v.Shortlist = append(v.Shortlist, e)
		}
	}
	return v
}

// Get returns the raw sequence for a view.
func (v Views) Get(view View) []contracts.Evaluated {
	switch view {
	case ViewStage1Passed:
		return v.Stage1Passed
	case ViewStage2Evaluated:
		return v.Stage2Evaluated
	case ViewShortlist:
		return v.Shortlist
	default:
		return v.All
	}
}

// Summarize computes the status-bar counts.
func (v Views) Summarize() contracts.StatusSummary {
	return contracts.StatusSummary{
		Total:           len(v.All),
		Stage1Passed:    len(v.Stage1Passed),
		Stage2Evaluated: len(v.Stage2Evaluated),
		Shortlisted:     len(v.Shortlist),
	}
}

// Query selects, searches and orders one derived view for display.
type Query struct {
	View       View
	Search     string // case-insensitive substring over candidate name
	Sort       SortKey
	Descending bool
}

// Select applies a query to the views. The input sequences are never
// mutated; the result is a fresh slice in the requested order.
func (v Views) Select(q Query) []contracts.Evaluated {
	base := v.Get(q.View)

	out := make([]contracts.Evaluated, 0, len(base))
	needle := strings.ToLower(q.Search)
	for _, e := range base {
		if needle == "" || strings.Contains(strings.ToLower(e.Candidate.Name), needle) {
			out = append(out, e)
		}
	}

	key := q.Sort
	if key == "" {
		key = SortByName
	}
	sort.SliceStable(out, func(i, j int) bool {
		less := lessBy(key, out[i], out[j])
		if q.Descending {
			return lessBy(key, out[j], out[i])
		}
		return less
	})

	return out
}

func lessBy(key SortKey, a, b contracts.Evaluated) bool {
	switch key {
	case SortByESI:
		return a.Analysis.Stage1.ESI.Aggregate < b.Analysis.Stage1.ESI.Aggregate
	case SortBySignal:
		return a.Analysis.Stage1.SignalScore < b.Analysis.Stage1.SignalScore
	case SortByHabitability:
		return a.Analysis.Stage2.HabitabilityLikelihood < b.Analysis.Stage2.HabitabilityLikelihood
	default:
		return a.Candidate.Name < b.Candidate.Name
	}
}
