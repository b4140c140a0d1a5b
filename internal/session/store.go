package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	perrors "github.com/harunnryd/planboard/internal/errors"
	"github.com/harunnryd/planboard/internal/store"
)

// Store owns the Session. It is created per process (or per test) and handed
// to whatever needs it; there is no package-level instance.
type Store struct {
	storage store.Storage
	key     string

	mu          sync.RWMutex
	current     Session
	hydrated    bool
	once        sync.Once
	subscribers []chan Snapshot
}

func NewStore(storage store.Storage, key string) *Store {
	return &Store{
		storage: storage,
		key:     key,
	}
}

// Hydrate loads the stored record once. Read and parse failures are logged and
// treated as "no prior session"; they never reach the caller. Later calls are no-ops.
func (s *Store) Hydrate() {
	s.once.Do(func() {
		loaded := s.load()

		s.mu.Lock()
		s.current = loaded
		s.hydrated = true
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.publish(snap)
		slog.Debug("Session hydrated", "logged_in", loaded.LoggedIn(), "role", loaded.Role)
	})
}

func (s *Store) load() Session {
	raw, ok, err := s.storage.Get(s.key)
	if err != nil {
		slog.Warn("Session storage read failed", "key", s.key, "error", err)
		return Session{}
	}
	if !ok || raw == "" {
		return Session{}
	}

	var record Session
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		slog.Warn("Session record parse failed", "key", s.key, "error", err)
		return Session{}
	}
	if record.Role != "" && !record.Role.Valid() {
		slog.Warn("Session record has unknown role", "key", s.key, "role", record.Role)
		return Session{}
	}
	return record
}

// Login replaces the whole session. The in-memory update happens even when the
// write-through fails; the write error is returned.
func (s *Store) Login(next Session) error {
	if !next.LoggedIn() {
		return perrors.InvalidInput("login without credential")
	}
	if !next.Role.Valid() {
		return perrors.InvalidInput(fmt.Sprintf("login with unknown role %q", next.Role))
	}
	return s.replace(next)
}

// Logout resets the session to its empty defaults.
func (s *Store) Logout() error {
	return s.replace(Session{})
}

func (s *Store) replace(next Session) error {
	s.mu.Lock()
	s.current = next
	hydrated := s.hydrated
	snap := s.snapshotLocked()

	// Write-through happens under the lock so storage order matches memory order.
	var err error
	if hydrated {
		err = s.persist(next)
	}
	s.mu.Unlock()

	s.publish(snap)
	if err != nil {
		slog.Error("Session persist failed", "key", s.key, "error", err)
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *Store) persist(sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.storage.Set(s.key, string(data))
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Session: s.current, Hydrated: s.hydrated}
}

func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Credential returns the bearer token, or "" before hydration.
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hydrated {
		return ""
	}
	return s.current.Credential
}

// Subscribe returns a channel that receives the latest snapshot after every
// change. Slow readers only ever see the newest value.
func (s *Store) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) publish(snap Snapshot) {
	s.mu.RLock()
	subs := append([]chan Snapshot(nil), s.subscribers...)
	s.mu.RUnlock()

	for _, ch := range subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
