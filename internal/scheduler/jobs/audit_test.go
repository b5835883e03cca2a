package jobs

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfield/exotriage/internal/catalog"
	"github.com/skyfield/exotriage/internal/contracts"
	"github.com/skyfield/exotriage/internal/pipeline"
	"github.com/skyfield/exotriage/internal/profile"
	"github.com/skyfield/exotriage/internal/session"
	"github.com/skyfield/exotriage/pkg/logger"
)

func fptr(v float64) *float64 { return &v }

func testStore(t *testing.T, degraded bool) *session.Store {
	t.Helper()
	log := logger.NewWriter(io.Discard, "error")

	cat, err := catalog.New([]*contracts.CandidateRecord{
		{Name: "KIC-8462852 b", RadiusEarth: fptr(1.12), InsolationFlux: fptr(0.87)},
		{Name: "WASP-12 b", RadiusEarth: fptr(20.0), InsolationFlux: fptr(9800)},
	})
	require.NoError(t, err)

	var orch *pipeline.Orchestrator
	if degraded {
		orch = pipeline.NewUnavailable(cat, "profile unreadable", log)
	} else {
		orch, err = pipeline.NewOrchestrator(cat, profile.Default(), log)
		require.NoError(t, err)
	}

	s := session.New(orch, contracts.DefaultThresholds(), time.Hour, log)
	t.Cleanup(s.Close)
	return s
}

func TestAudit_PassesOnDeterministicPipeline(t *testing.T) {
	store := testStore(t, false)
	_, err := store.RunNow(context.Background())
	require.NoError(t, err)

	audit := NewReproducibilityAudit(store, "0 */10 * * * *", logger.NewWriter(io.Discard, "error"))
	assert.Equal(t, "reproducibility_audit", audit.Name())
	assert.Equal(t, "0 */10 * * * *", audit.Schedule())

	assert.NoError(t, audit.Run(context.Background()))
}

func TestAudit_SkipsBeforeFirstRun(t *testing.T) {
	store := testStore(t, false)

	audit := NewReproducibilityAudit(store, "", logger.NewWriter(io.Discard, "error"))
	assert.NoError(t, audit.Run(context.Background()))
	assert.Nil(t, store.Latest(), "audit must not run the pipeline without a baseline")
}

func TestAudit_SkipsDegradedRuns(t *testing.T) {
	store := testStore(t, true)
	_, err := store.RunNow(context.Background())
	require.NoError(t, err)

	prev := store.Latest()
	require.NotNil(t, prev)
	require.True(t, prev.Unavailable)

	audit := NewReproducibilityAudit(store, "", logger.NewWriter(io.Discard, "error"))
	assert.NoError(t, audit.Run(context.Background()))

	// The degraded run stays committed; no comparison run replaced it.
	assert.Equal(t, prev.RunID, store.Latest().RunID)
}
