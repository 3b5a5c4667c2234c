package interview

import (
	"context"
	"sync"
	"time"
)

// Store owns sessions. Mutate runs fn on a private copy under a per-session
// lock and commits the copy only when fn succeeds. Sessions expire after a
// store-defined TTL; there is no explicit removal.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Mutate(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
}

// keyedMutex hands out one mutex per session id. An entry lives only while
// someone holds or waits for it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(id string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = map[string]*refMutex{}
	}
	l, ok := k.locks[id]
	if !ok {
		l = &refMutex{}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}

type memoryEntry struct {
	session *Session
	expires time.Time
}

// MemoryStore keeps sessions in process. Each write extends a session's
// life by the TTL; expired sessions read as not found and are swept on the
// next Create.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	locks    keyedMutex
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore builds a store whose sessions expire ttl after their last
// write. A ttl of zero keeps sessions for the life of the process.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: map[string]memoryEntry{},
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) entry(s *Session) memoryEntry {
	e := memoryEntry{session: s.Clone()}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	return e
}

func (m *MemoryStore) expired(e memoryEntry, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, e := range m.sessions {
		if m.expired(e, now) {
			delete(m.sessions, id)
		}
	}

	if _, ok := m.sessions[s.ID]; ok {
		return ErrSessionExists
	}
	m.sessions[s.ID] = m.entry(s)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok || m.expired(e, m.now()) {
		return nil, ErrSessionNotFound
	}
	return e.session.Clone(), nil
}

func (m *MemoryStore) Mutate(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	unlock := m.locks.lock(id)
	defer unlock()

	current, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(current); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[id]; !ok || m.expired(e, m.now()) {
		return nil, ErrSessionNotFound
	}
	m.sessions[id] = m.entry(current)
	return current, nil
}
