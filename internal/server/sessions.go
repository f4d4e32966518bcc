package server

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/helixir/scholar-directory/internal/cache"
	"github.com/helixir/scholar-directory/internal/domain"
	"github.com/helixir/scholar-directory/internal/search"
)

// sessionManager maintains one search session per user over the shared data
// cache. Sessions are not safe for concurrent invocations, so the manager
// serializes pipeline runs per session.
type sessionManager struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	cache    *cache.Cache
	logger   zerolog.Logger
}

type sessionEntry struct {
	mu      sync.Mutex
	session *search.Session
}

func newSessionManager(dataCache *cache.Cache, logger zerolog.Logger) *sessionManager {
	return &sessionManager{
		sessions: make(map[string]*sessionEntry),
		cache:    dataCache,
		logger:   logger,
	}
}

// entryFor returns the session entry for the identity, creating it on first
// use. Anonymous identities share the empty key.
func (m *sessionManager) entryFor(identity domain.Identity) *sessionEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[identity.UID]
	if !ok {
		entry = &sessionEntry{
			session: search.NewSession(identity, m.cache, m.logger),
		}
		m.sessions[identity.UID] = entry
	}
	return entry
}

// Run executes one search pipeline invocation for the identity's session.
func (m *sessionManager) Run(ctx context.Context, identity domain.Identity, req search.Request) (*search.Result, error) {
	entry := m.entryFor(identity)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session.Run(ctx, req)
}

// FilterSet returns the unrestricted filter set for the identity's session.
func (m *sessionManager) FilterSet(ctx context.Context, identity domain.Identity) (search.FilterSet, error) {
	entry := m.entryFor(identity)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session.FilterSet(ctx)
}
