package chat

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linkmagico/chatbot/internal/model"
)

// DefaultWindow is the maximum number of turns kept per session. The
// oldest turns are evicted first.
const DefaultWindow = 10

type session struct {
	turns   []model.ConversationTurn
	touched time.Time
}

// HistoryStore keeps bounded, ordered per-session conversation history.
// Sessions are created implicitly on first append, or explicitly via
// CreateSession. Idle sessions are reclaimed by SweepIdle.
type HistoryStore struct {
	mu       sync.RWMutex
	limit    int
	sessions map[string]*session
	now      func() time.Time
}

// NewHistoryStore creates a HistoryStore with the given window size.
// A non-positive limit uses DefaultWindow.
func NewHistoryStore(limit int) *HistoryStore {
	if limit <= 0 {
		limit = DefaultWindow
	}
	return &HistoryStore{
		limit:    limit,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// CreateSession allocates a fresh session with empty history.
func (h *HistoryStore) CreateSession() string {
	id := uuid.New().String()
	h.mu.Lock()
	h.sessions[id] = &session{touched: h.now()}
	h.mu.Unlock()
	return id
}

// Append adds a turn to a session, creating the session if absent, and
// trims the window from the front when the bound is exceeded.
func (h *HistoryStore) Append(sessionID string, turn model.ConversationTurn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		s = &session{}
		h.sessions[sessionID] = s
	}
	s.turns = append(s.turns, turn)
	if n := len(s.turns); n > h.limit {
		s.turns = append(s.turns[:0:0], s.turns[n-h.limit:]...)
	}
	s.touched = h.now()
}

// History returns a copy of a session's turns in chronological order.
func (h *HistoryStore) History(sessionID string) []model.ConversationTurn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[sessionID]
	if !ok {
		return nil
	}
	return append([]model.ConversationTurn(nil), s.turns...)
}

// SweepIdle removes sessions untouched for longer than maxIdle and
// returns how many were removed.
func (h *HistoryStore) SweepIdle(maxIdle time.Duration) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	removed := 0
	cutoff := h.now().Add(-maxIdle)
	for id, s := range h.sessions {
		if s.touched.Before(cutoff) {
			delete(h.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs SweepIdle on an interval until ctx is done.
func (h *HistoryStore) StartSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := h.SweepIdle(maxIdle); n > 0 {
					zap.L().Info("chat: swept idle sessions", zap.Int("removed", n))
				}
			}
		}
	}()
}
