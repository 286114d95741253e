// Package devotp keeps plain verification codes by target so developers can read them back
// through GET /dev/otp. Only wired when OTP_RETURN_TO_CLIENT is true outside production.
package devotp

import (
	"context"
	"sync"
	"time"
)

// Store holds plain codes by target for dev-only retrieval.
type Store interface {
	// Put stores code for target until expiresAt, replacing any earlier code.
	Put(ctx context.Context, target, code string, expiresAt time.Time)
	// Get returns the code for target if present and not expired.
	Get(ctx context.Context, target string) (code string, ok bool)
}

type entry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]entry
	nowF func() time.Time
}

// NewMemoryStore returns a new in-memory dev code store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]entry),
		nowF: time.Now,
	}
}

// Put stores code for target until expiresAt.
func (s *MemoryStore) Put(_ context.Context, target, code string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[target] = entry{code: code, expiresAt: expiresAt}
}

// Get returns the code for target if present and not expired. Expired entries are dropped.
func (s *MemoryStore) Get(_ context.Context, target string) (string, bool) {
	s.mu.RLock()
	e, ok := s.m[target]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.expiresAt.After(s.nowF()) {
		s.mu.Lock()
		if cur, still := s.m[target]; still && cur == e {
			delete(s.m, target)
		}
		s.mu.Unlock()
		return "", false
	}
	return e.code, true
}
