package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/skyfield/exotriage/internal/contracts"
	"github.com/skyfield/exotriage/internal/pipeline"
	"github.com/skyfield/exotriage/internal/scoring"
	"github.com/skyfield/exotriage/internal/session"
	"github.com/skyfield/exotriage/pkg/logger"
)

// TriageHandler serves the dashboard-facing triage endpoints.
// SSOT: view-layer HTTP contracts live only here.
type TriageHandler struct {
	store  *session.Store
	logger *logger.Logger
}

// NewTriageHandler creates the triage handler.
func NewTriageHandler(store *session.Store, log *logger.Logger) *TriageHandler {
	return &TriageHandler{
		store:  store,
		logger: log,
	}
}

// StatusResponse is the status-bar payload.
type StatusResponse struct {
	RunID       string                  `json:"run_id,omitempty"`
	ProfileHash string                  `json:"profile_hash,omitempty"`
	Thresholds  contracts.ThresholdSet  `json:"thresholds"`
	Summary     contracts.StatusSummary `json:"summary"`
	Unavailable bool                    `json:"unavailable,omitempty"`
	Reason      string                  `json:"reason,omitempty"`
}

// GetStatus returns the latest committed run summary.
// GET /api/status
func (h *TriageHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{Thresholds: h.store.Thresholds()}

	if run := h.store.Latest(); run != nil {
		resp.RunID = run.RunID
		resp.ProfileHash = run.ProfileHash
		resp.Summary = run.Summary
		resp.Unavailable = run.Unavailable
		resp.Reason = run.Reason
	}

	respondJSON(w, http.StatusOK, resp)
}

// ViewResponse is one derived view, filtered and ordered for display.
type ViewResponse struct {
	View  string                `json:"view"`
	Count int                   `json:"count"`
	Items []contracts.Evaluated `json:"items"`
}

// GetView returns a derived view.
// GET /api/views/{view}?q=&sort=&order=asc|desc
func (h *TriageHandler) GetView(w http.ResponseWriter, r *http.Request) {
	run := h.store.Latest()
	if run == nil {
		respondError(w, http.StatusServiceUnavailable, "No pipeline run committed yet")
		return
	}

	view, err := pipeline.ParseView(mux.Vars(r)["view"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := pipeline.Query{
		View:   view,
		Search: r.URL.Query().Get("q"),
	}

	if s := r.URL.Query().Get("sort"); s != "" {
		key, err := pipeline.ParseSortKey(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		q.Sort = key
	}
	q.Descending = r.URL.Query().Get("order") == "desc"

	items := run.Views.Select(q)
	respondJSON(w, http.StatusOK, ViewResponse{
		View:  string(view),
		Count: len(items),
		Items: items,
	})
}

// CandidateDetail is the drawer payload: the raw observational record plus
// the full analysis and derived state.
type CandidateDetail struct {
	Candidate *contracts.CandidateRecord `json:"candidate"`
	Analysis  *contracts.AnalysisResult  `json:"analysis,omitempty"`
	State     contracts.CandidateState   `json:"state"`
}

// GetCandidate returns the detail payload for one candidate.
// GET /api/candidates/{name}
func (h *TriageHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	run := h.store.Latest()
	if run == nil {
		respondError(w, http.StatusServiceUnavailable, "No pipeline run committed yet")
		return
	}

	for _, e := range run.Results {
		if e.Candidate.Name == name {
			respondJSON(w, http.StatusOK, CandidateDetail{
				Candidate: e.Candidate,
				Analysis:  e.Analysis,
				State:     e.Analysis.State(),
			})
			return
		}
	}

	respondError(w, http.StatusNotFound, "Unknown candidate "+name)
}

// ThresholdResponse reports the effective thresholds after a read or write.
type ThresholdResponse struct {
	Thresholds contracts.ThresholdSet `json:"thresholds"`
	Error      string                 `json:"error,omitempty"`
}

// GetThresholds returns the current threshold set.
// GET /api/thresholds
func (h *TriageHandler) GetThresholds(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ThresholdResponse{Thresholds: h.store.Thresholds()})
}

// thresholdWrite is the PUT body.
type thresholdWrite struct {
	Value float64 `json:"value"`
}

// PutThreshold applies one threshold write.
// PUT /api/thresholds/{key} {"value": 0.75}
//
// Invalid values (NaN, outside [0,1], unknown key) are rejected with 400 and
// the retained prior set, so the dashboard can revert its display.
func (h *TriageHandler) PutThreshold(w http.ResponseWriter, r *http.Request) {
	key := contracts.ThresholdKey(mux.Vars(r)["key"])

	var body thresholdWrite
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, ThresholdResponse{
			Thresholds: h.store.Thresholds(),
			Error:      "invalid body: " + err.Error(),
		})
		return
	}

	current, err := h.store.SetThreshold(key, body.Value)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, ThresholdResponse{
			Thresholds: current,
			Error:      err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, ThresholdResponse{Thresholds: current})
}

// AtmosphereScoreResponse is the live exploration payload.
type AtmosphereScoreResponse struct {
	Score float64 `json:"score"`
}

// ScoreAtmosphere scores a user-built composition with the same scorer the
// pipeline uses for Stage 2.
// POST /api/atmosphere/score {"H2O": 1, "O2": 21, ...}
func (h *TriageHandler) ScoreAtmosphere(w http.ResponseWriter, r *http.Request) {
	var comp contracts.AtmosphereComposition
	if err := json.NewDecoder(r.Body).Decode(&comp); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	if err := comp.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, AtmosphereScoreResponse{
		Score: scoring.AtmosphereSimilarity(comp),
	})
}
