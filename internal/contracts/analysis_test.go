package contracts

import "testing"

func TestAnalysisResult_State(t *testing.T) {
	tests := []struct {
		name     string
		analysis *AnalysisResult
		want     CandidateState
	}{
		{"nil analysis", nil, StateUnevaluated},
		{
			"unavailable",
			&AnalysisResult{Status: AnalysisUnavailable},
			StateUnavailable,
		},
		{
			"stage1 failed",
			&AnalysisResult{
				Status: AnalysisEvaluated,
				Stage1: Stage1Result{Passed: false},
				Stage2: Stage2Result{Status: Stage2NotRun},
			},
			StateStage1Failed,
		},
		{
			"stage2 passed",
			&AnalysisResult{
				Status: AnalysisEvaluated,
				Stage1: Stage1Result{Passed: true},
				Stage2: Stage2Result{Status: Stage2Evaluated, Passed: true},
			},
			StateStage2Passed,
		},
		{
			"stage2 failed",
			&AnalysisResult{
				Status: AnalysisEvaluated,
				Stage1: Stage1Result{Passed: true},
				Stage2: Stage2Result{Status: Stage2Evaluated, Passed: false},
			},
			StateStage2Failed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.analysis.State(); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnalysisResult_Shortlisted(t *testing.T) {
	tests := []struct {
		name     string
		analysis *AnalysisResult
		want     bool
	}{
		{"nil", nil, false},
		{"unavailable", &AnalysisResult{Status: AnalysisUnavailable}, false},
		{
			"stage2 not run",
			&AnalysisResult{Status: AnalysisEvaluated, Stage2: Stage2Result{Status: Stage2NotRun}},
			false,
		},
		{
			"stage2 failed",
			&AnalysisResult{Status: AnalysisEvaluated, Stage2: Stage2Result{Status: Stage2Evaluated, Passed: false}},
			false,
		},
		{
			"stage2 passed",
			&AnalysisResult{Status: AnalysisEvaluated, Stage2: Stage2Result{Status: Stage2Evaluated, Passed: true}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.analysis.Shortlisted(); got != tt.want {
				t.Errorf("Shortlisted() = %v, want %v", got, tt.want)
			}
		})
	}
}
