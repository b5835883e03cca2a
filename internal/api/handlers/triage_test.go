package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/skyfield/exotriage/internal/api"
	"github.com/skyfield/exotriage/internal/api/handlers"
	"github.com/skyfield/exotriage/internal/catalog"
	"github.com/skyfield/exotriage/internal/contracts"
	"github.com/skyfield/exotriage/internal/pipeline"
	"github.com/skyfield/exotriage/internal/profile"
	"github.com/skyfield/exotriage/internal/realtime"
	"github.com/skyfield/exotriage/internal/session"
	"github.com/skyfield/exotriage/pkg/logger"
)

func fptr(v float64) *float64 { return &v }

// newTestRouter wires the full handler stack over a small in-memory catalog.
// withRun controls whether an initial pipeline run is committed.
func newTestRouter(t *testing.T, withRun bool) http.Handler {
	t.Helper()
	log := logger.NewWriter(io.Discard, "error")

	cat, err := catalog.New([]*contracts.CandidateRecord{
		{Name: "KIC-8462852 b", RadiusEarth: fptr(1.12), InsolationFlux: fptr(0.87)},
		{Name: "KOI-701.03", RadiusEarth: fptr(1.41), InsolationFlux: fptr(1.2)},
		{Name: "Kepler-452 b", RadiusEarth: fptr(1.63), InsolationFlux: fptr(1.1)},
		{Name: "WASP-12 b", RadiusEarth: fptr(20.0), InsolationFlux: fptr(9800)},
	})
	require.NoError(t, err)

	orch, err := pipeline.NewOrchestrator(cat, profile.Default(), log)
	require.NoError(t, err)

	store := session.New(orch, contracts.DefaultThresholds(), 10*time.Millisecond, log)
	t.Cleanup(store.Close)

	if withRun {
		_, err = store.RunNow(context.Background())
		require.NoError(t, err)
	}

	hub := realtime.NewHub(log)
	limiter := rate.NewLimiter(rate.Limit(1000), 1000)
	triage := handlers.NewTriageHandler(store, log)
	return api.NewRouter(triage, hub, limiter, log)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, true)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestGetStatus(t *testing.T) {
	router := newTestRouter(t, true)

	var status handlers.StatusResponse
	rec := doJSON(t, router, http.MethodGet, "/api/status", "", &status)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.NotEmpty(t, status.RunID)
	assert.NotEmpty(t, status.ProfileHash)
	assert.Equal(t, contracts.DefaultThresholds(), status.Thresholds)
	assert.Equal(t, 4, status.Summary.Total)
	assert.False(t, status.Unavailable)
}

func TestGetView(t *testing.T) {
	router := newTestRouter(t, true)

	var view handlers.ViewResponse
	rec := doJSON(t, router, http.MethodGet, "/api/views/all", "", &view)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "all", view.View)
	assert.Equal(t, 4, view.Count)
	assert.Len(t, view.Items, view.Count)
}

func TestGetView_ShortlistContainsReferenceCandidates(t *testing.T) {
	router := newTestRouter(t, true)

	var view handlers.ViewResponse
	rec := doJSON(t, router, http.MethodGet, "/api/views/shortlist", "", &view)
	require.Equal(t, http.StatusOK, rec.Code)

	names := make(map[string]bool)
	for _, e := range view.Items {
		names[e.Candidate.Name] = true
	}
	for _, name := range contracts.ReferenceCandidateNames() {
		assert.True(t, names[name], "%s missing from shortlist", name)
	}
}

func TestGetView_SearchAndSort(t *testing.T) {
	router := newTestRouter(t, true)

	var view handlers.ViewResponse
	rec := doJSON(t, router, http.MethodGet, "/api/views/all?q=wasp", "", &view)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, view.Count)
	assert.Equal(t, "WASP-12 b", view.Items[0].Candidate.Name)

	rec = doJSON(t, router, http.MethodGet, "/api/views/all?sort=esi&order=desc", "", &view)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 4, view.Count)
	assert.Equal(t, "WASP-12 b", view.Items[3].Candidate.Name, "lowest ESI must sort last descending")
}

func TestGetView_Rejections(t *testing.T) {
	router := newTestRouter(t, true)

	rec := doJSON(t, router, http.MethodGet, "/api/views/everything", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/views/all?sort=radius", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetView_BeforeFirstRun(t *testing.T) {
	router := newTestRouter(t, false)

	rec := doJSON(t, router, http.MethodGet, "/api/views/all", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetCandidate(t *testing.T) {
	router := newTestRouter(t, true)

	var detail handlers.CandidateDetail
	path := "/api/candidates/" + url.PathEscape("KIC-8462852 b")
	rec := doJSON(t, router, http.MethodGet, path, "", &detail)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "KIC-8462852 b", detail.Candidate.Name)
	require.NotNil(t, detail.Analysis)
	assert.Equal(t, contracts.StateStage2Passed, detail.State)
}

func TestGetCandidate_Unknown(t *testing.T) {
	router := newTestRouter(t, true)

	rec := doJSON(t, router, http.MethodGet, "/api/candidates/Vulcan", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestThresholds_ReadAndWrite(t *testing.T) {
	router := newTestRouter(t, true)

	var resp handlers.ThresholdResponse
	rec := doJSON(t, router, http.MethodGet, "/api/thresholds", "", &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contracts.DefaultThresholds(), resp.Thresholds)

	rec = doJSON(t, router, http.MethodPut, "/api/thresholds/esi", `{"value": 0.9}`, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.9, resp.Thresholds.ESI)
	assert.Empty(t, resp.Error)
}

func TestPutThreshold_RejectedWriteRetainsPrior(t *testing.T) {
	router := newTestRouter(t, true)

	rec := doJSON(t, router, http.MethodPut, "/api/thresholds/signal", `{"value": 1.5}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var rejected handlers.ThresholdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rejected))
	assert.NotEmpty(t, rejected.Error)
	assert.Equal(t, contracts.DefaultThresholds(), rejected.Thresholds, "prior set must be reported back")

	// The effective set is unchanged.
	var current handlers.ThresholdResponse
	rec = doJSON(t, router, http.MethodGet, "/api/thresholds", "", &current)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contracts.DefaultThresholds(), current.Thresholds)
}

func TestPutThreshold_BadRequests(t *testing.T) {
	router := newTestRouter(t, true)

	rec := doJSON(t, router, http.MethodPut, "/api/thresholds/bogus", `{"value": 0.5}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/thresholds/esi", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoreAtmosphere(t *testing.T) {
	router := newTestRouter(t, true)

	var resp handlers.AtmosphereScoreResponse
	rec := doJSON(t, router, http.MethodPost, "/api/atmosphere/score",
		`{"H2O": 1, "O2": 21, "CO2": 0.04, "CH4": 0.01, "O3": 0.01}`, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 0.583, resp.Score, 1e-9)
}

func TestScoreAtmosphere_Rejections(t *testing.T) {
	router := newTestRouter(t, true)

	rec := doJSON(t, router, http.MethodPost, "/api/atmosphere/score", `{"Xe": 1}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/atmosphere/score", `{"O2": -5}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/atmosphere/score", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	log := logger.NewWriter(io.Discard, "error")

	cat, err := catalog.New([]*contracts.CandidateRecord{{Name: "only"}})
	require.NoError(t, err)
	orch, err := pipeline.NewOrchestrator(cat, profile.Default(), log)
	require.NoError(t, err)
	store := session.New(orch, contracts.DefaultThresholds(), time.Hour, log)
	t.Cleanup(store.Close)

	// One token, no refill: the second API request must shed.
	limiter := rate.NewLimiter(rate.Limit(0), 1)
	router := api.NewRouter(handlers.NewTriageHandler(store, log), realtime.NewHub(log), limiter, log)

	rec := doJSON(t, router, http.MethodGet, "/api/thresholds", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/thresholds", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// The health endpoint sits outside the rate-limited subrouter.
	rec = doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
