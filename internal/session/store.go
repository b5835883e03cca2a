// Package session owns the interactive triage state: the threshold set, the
// debounced re-run trigger, and the latest committed pipeline run.
// SSOT: threshold writes and run commits happen only here.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/skyfield/exotriage/internal/contracts"
	"github.com/skyfield/exotriage/internal/pipeline"
	"github.com/skyfield/exotriage/pkg/logger"
)

// Store serializes pipeline runs against threshold writes.
//
// Writes are validated at the boundary ([0,1], NaN rejected) and coalesced:
// rapid successive writes trigger at most one run per settling interval.
// Runs are superseded, not cancelled: only the most recently started run
// commits, so derived views may briefly lag a new threshold but never show
// a mix of two runs.
type Store struct {
	orch     *pipeline.Orchestrator
	debounce time.Duration
	logger   *logger.Logger

	mu         sync.Mutex
	thresholds contracts.ThresholdSet
	timer      *time.Timer
	generation uint64 // bumped on every accepted write
	committed  *pipeline.RunResult
	closed     bool

	onCommit []func(*pipeline.RunResult)
}

// New creates a session store. No run is started until RunNow or a
// threshold write.
func New(orch *pipeline.Orchestrator, initial contracts.ThresholdSet, debounce time.Duration, log *logger.Logger) *Store {
	return &Store{
		orch:       orch,
		debounce:   debounce,
		logger:     log,
		thresholds: initial,
	}
}

// OnCommit registers a callback invoked after every committed run.
// Registration is not safe once runs are in flight; wire subscribers at
// startup.
func (s *Store) OnCommit(fn func(*pipeline.RunResult)) {
	s.onCommit = append(s.onCommit, fn)
}

// RunNow executes the pipeline synchronously with the current thresholds and
// commits the result. Used for the initial catalog load and by the
// reproducibility audit.
func (s *Store) RunNow(ctx context.Context) (*pipeline.RunResult, error) {
	s.mu.Lock()
	gen := s.generation
	thresholds := s.thresholds
	s.mu.Unlock()

	result, err := s.orch.Run(ctx, thresholds)
	if err != nil {
		return nil, err
	}
	s.commit(gen, result)
	return result, nil
}

// SetThreshold validates and applies one threshold write, then schedules a
// debounced re-run. Invalid input is rejected and the prior value retained;
// the returned set is always the currently effective one.
func (s *Store) SetThreshold(key contracts.ThresholdKey, value float64) (contracts.ThresholdSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.thresholds.With(key, value)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"key":   string(key),
			"value": value,
		}).Warn("Rejected threshold write")
		return s.thresholds, err
	}

	s.thresholds = next
	s.scheduleLocked()
	return s.thresholds, nil
}

// Thresholds returns the currently effective threshold set.
func (s *Store) Thresholds() contracts.ThresholdSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thresholds
}

// Latest returns the most recently committed run, or nil before the first
// run completes.
func (s *Store) Latest() *pipeline.RunResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

// Close stops any pending debounce timer. In-flight runs finish but their
// results are discarded.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.generation++ // orphan in-flight runs
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// scheduleLocked (mu held) bumps the generation and resets the settle timer.
func (s *Store) scheduleLocked() {
	if s.closed {
		return
	}
	s.generation++
	gen := s.generation

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.launch(gen)
	})
}

// launch runs the pipeline for generation gen on a fresh goroutine context.
// The result commits only if no newer write arrived meanwhile.
func (s *Store) launch(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.closed {
		s.mu.Unlock()
		return
	}
	thresholds := s.thresholds
	s.mu.Unlock()

	result, err := s.orch.Run(context.Background(), thresholds)
	if err != nil {
		s.logger.WithError(err).Error("Debounced pipeline run failed")
		return
	}
	s.commit(gen, result)
}

// commit installs the run result unless a newer generation superseded it.
func (s *Store) commit(gen uint64, result *pipeline.RunResult) {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		s.logger.WithField("run_id", result.RunID).Debug("Discarded superseded run")
		return
	}
	s.committed = result
	callbacks := s.onCommit
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(result)
	}
}
