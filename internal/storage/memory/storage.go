package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/portfolio/internal/dependencies/clock"
	"github.com/mcoot/portfolio/internal/model"
	"github.com/mcoot/portfolio/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu    sync.RWMutex
	clock clock.Clock

	sessions map[model.SessionID]*model.Session
	cache    map[string]cacheEntry
}

type cacheEntry struct {
	data      []byte
	expiresAt time.Time // Zero means no expiry
}

// New creates a new in-memory storage instance
func New(clk clock.Clock) *Storage {
	if clk == nil {
		clk = clock.New()
	}
	return &Storage{
		clock:    clk,
		sessions: make(map[model.SessionID]*model.Session),
		cache:    make(map[string]cacheEntry),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

// Sessions are copied on the way in and out so callers never share the
// mutable board with the store.

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Storage) SessionExists(ctx context.Context, id model.SessionID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok, nil
}

// Cache operations

func (s *Storage) GetCached(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !s.clock.Now().Before(entry.expiresAt) {
		return nil, model.ErrCacheMiss
	}
	result := make([]byte, len(entry.data))
	copy(result, entry.data)
	return result, nil
}

func (s *Storage) SaveCached(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := cacheEntry{data: make([]byte, len(data))}
	copy(entry.data, data)
	if ttl > 0 {
		entry.expiresAt = s.clock.Now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = entry
	return nil
}
