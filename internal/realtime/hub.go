// Package realtime pushes committed pipeline runs to connected dashboards
// over websocket, so the status bar updates without polling.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/skyfield/exotriage/internal/contracts"
	"github.com/skyfield/exotriage/internal/pipeline"
	"github.com/skyfield/exotriage/pkg/logger"
)

// RunEvent is the wire payload broadcast after every committed run.
type RunEvent struct {
	Type        string                  `json:"type"` // "run_committed"
	RunID       string                  `json:"run_id"`
	Thresholds  contracts.ThresholdSet  `json:"thresholds"`
	Summary     contracts.StatusSummary `json:"summary"`
	Unavailable bool                    `json:"unavailable,omitempty"`
	Reason      string                  `json:"reason,omitempty"`
}

// Hub fans committed-run events out to connected clients.
// SSOT: websocket client bookkeeping lives only here.
type Hub struct {
	logger *logger.Logger

	mu      sync.Mutex
	clients map[*Client]bool
}

// NewHub creates an empty hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		logger:  log,
		clients: make(map[*Client]bool),
	}
}

// BroadcastRun sends the run summary to every connected client. Slow clients
// are dropped rather than allowed to block the commit path.
func (h *Hub) BroadcastRun(result *pipeline.RunResult) {
	event := RunEvent{
		Type:        "run_committed",
		RunID:       result.RunID,
		Thresholds:  result.Thresholds,
		Summary:     result.Summary,
		Unavailable: result.Unavailable,
		Reason:      result.Reason,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode run event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("Dropping slow websocket client")
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}
