// Package session owns the single signed-in identity of a client and persists it through a
// pluggable Storage: a file for the terminal client, a signed cookie per HTTP request.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/identity/domain"
)

// Store holds at most one identity. It is safe for concurrent use.
type Store struct {
	storage Storage
	logger  *zap.Logger

	mu      sync.RWMutex
	current *domain.Identity

	subMu  sync.Mutex
	subs   map[int]func(*domain.Identity)
	nextID int
}

// NewStore returns an empty Store over storage. Call Restore to rehydrate a persisted identity.
func NewStore(storage Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{storage: storage, logger: logger, subs: make(map[int]func(*domain.Identity))}
}

// Restore reads the persisted identity. A missing record yields nil; a corrupt one is deleted
// and also yields nil. Subscribers are notified with the restored value.
func (s *Store) Restore(ctx context.Context) (*domain.Identity, error) {
	id, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.current = id
	s.mu.Unlock()
	s.notify(id)
	return id.Clone(), nil
}

func (s *Store) load(ctx context.Context) (*domain.Identity, error) {
	data, err := s.storage.Load(ctx)
	switch {
	case errors.Is(err, ErrNoRecord):
		return nil, nil
	case errors.Is(err, ErrCorrupt):
		s.discard(ctx, err)
		return nil, nil
	case err != nil:
		return nil, err
	}
	var id domain.Identity
	if err := json.Unmarshal(data, &id); err != nil {
		s.discard(ctx, err)
		return nil, nil
	}
	if err := id.Validate(); err != nil {
		s.discard(ctx, err)
		return nil, nil
	}
	return &id, nil
}

func (s *Store) discard(ctx context.Context, cause error) {
	s.logger.Warn("session: discarding unreadable record", zap.Error(cause))
	if err := s.storage.Delete(ctx); err != nil {
		s.logger.Warn("session: delete unreadable record", zap.Error(err))
	}
}

// Current returns a copy of the signed-in identity, if any.
func (s *Store) Current() (*domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current.Clone(), true
}

// Set persists id and makes it current.
func (s *Store) Set(ctx context.Context, id *domain.Identity) error {
	if err := id.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(id)
	if err != nil {
		return err
	}
	if err := s.storage.Save(ctx, data); err != nil {
		return err
	}
	c := id.Clone()
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
	s.notify(c)
	return nil
}

// Clear forgets the current identity and deletes the persisted record. Clearing an empty store is a no-op
// apart from the delete.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.Delete(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	had := s.current != nil
	s.current = nil
	s.mu.Unlock()
	if had {
		s.notify(nil)
	}
	return nil
}

// Subscribe registers fn for auth-state changes. fn receives the new identity, or nil after
// sign-out. The returned func unregisters it.
func (s *Store) Subscribe(fn func(*domain.Identity)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(id *domain.Identity) {
	s.subMu.Lock()
	fns := make([]func(*domain.Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(id.Clone())
	}
}
