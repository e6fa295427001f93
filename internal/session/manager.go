// Package session keeps the record set each client is viewing, so a
// re-sort does not need the original upload.
package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parent-node-finder/backend/internal/logger"
	"github.com/parent-node-finder/backend/internal/models"
	"github.com/parent-node-finder/backend/internal/parser"
	"github.com/rs/zerolog"
)

// DefaultMaxSessions limits retained sessions to prevent memory exhaustion
const DefaultMaxSessions = 50

// SessionKeepAliveWindow is how long to keep sessions that are actively being used
const SessionKeepAliveWindow = 5 * time.Minute

// Manager holds report sessions in memory.
type Manager struct {
	sessions    map[string]*sessionState
	mu          sync.RWMutex
	maxSessions int
	log         zerolog.Logger
}

type sessionState struct {
	session      models.ReportSession
	lastAccessed time.Time
}

// NewManager creates a session manager retaining at most maxSessions.
func NewManager(maxSessions int) *Manager {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Manager{
		sessions:    make(map[string]*sessionState),
		maxSessions: maxSessions,
		log:         logger.WithComponent("session"),
	}
}

// Create stores a parse result under a new session ID. sess supplies the
// descriptive fields; ID, SortKey, Result and CreatedAt are set here.
func (m *Manager) Create(sess models.ReportSession, result models.Result) models.ReportSession {
	m.evictIfNeeded()

	now := time.Now()
	sess.ID = uuid.New().String()
	sess.SortKey = models.SortByIdentifier
	sess.Result = result
	sess.CreatedAt = now

	m.mu.Lock()
	m.sessions[sess.ID] = &sessionState{session: sess, lastAccessed: now}
	m.mu.Unlock()

	m.log.Debug().
		Str("sessionId", shortID(sess.ID)).
		Str("mode", string(result.Mode)).
		Int("records", result.Count).
		Msg("session created")

	return sess
}

// Get returns a session by ID and marks it as accessed.
func (m *Manager) Get(id string) (models.ReportSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return models.ReportSession{}, false
	}
	state.lastAccessed = time.Now()
	return state.session, true
}

// Resort reorders the session's current record set by key and keeps the
// new order for subsequent reads.
func (m *Manager) Resort(id string, key models.SortKey) (models.ReportSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return models.ReportSession{}, false
	}

	state.session.Result.Records = parser.Resort(state.session.Result.Records, key)
	state.session.SortKey = key
	state.lastAccessed = time.Now()
	return state.session, true
}

// TouchSession updates the last access time for a session.
func (m *Manager) TouchSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.lastAccessed = time.Now()
	return true
}

// Delete removes a session.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Len returns the number of retained sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// evictIfNeeded drops the least recently used sessions when at capacity.
func (m *Manager) evictIfNeeded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) < m.maxSessions {
		return
	}

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.sessions[ids[i]].lastAccessed.Before(m.sessions[ids[j]].lastAccessed)
	})

	toFree := len(m.sessions) - m.maxSessions + 1
	for _, id := range ids[:toFree] {
		delete(m.sessions, id)
		m.log.Info().Str("sessionId", shortID(id)).Msg("evicted session to stay under capacity")
	}
}

// CleanupOldSessions removes sessions not accessed within maxAge,
// but never those accessed within SessionKeepAliveWindow.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if maxAge < SessionKeepAliveWindow {
		maxAge = SessionKeepAliveWindow
	}
	cutoff := time.Now().Add(-maxAge)

	removed := 0
	for id, state := range m.sessions {
		if state.lastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			removed++
			m.log.Info().
				Str("sessionId", shortID(id)).
				Dur("idle", time.Since(state.lastAccessed).Round(time.Second)).
				Msg("cleaned up aged session")
		}
	}
	return removed
}

// Run cleans up aged sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval, maxAge time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanupOldSessions(maxAge)
		}
	}
}

// shortID safely truncates an ID for logging
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
