package repository

import (
	"context"
	"sync"
	"time"

	"nss-bloodbank/backend/internal/otp/domain"
)

// MemoryRepository keeps challenges in process memory.
type MemoryRepository struct {
	mu   sync.Mutex
	m    map[string]*domain.Challenge
	nowF func() time.Time
}

// NewMemoryRepository returns an empty challenge store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		m:    make(map[string]*domain.Challenge),
		nowF: time.Now,
	}
}

// Put stores a copy of c, replacing any earlier challenge for the same target.
func (r *MemoryRepository) Put(_ context.Context, c *domain.Challenge) error {
	cp := *c
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[c.Target] = &cp
	return nil
}

// Get returns a copy of the challenge for target, or nil if none.
func (r *MemoryRepository) Get(_ context.Context, target string) (*domain.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.m[target]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// IncrementAttempts bumps the failed-guess counter for target.
func (r *MemoryRepository) IncrementAttempts(_ context.Context, target string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.m[target]
	if !ok {
		return 0, nil
	}
	c.Attempts++
	return c.Attempts, nil
}

// Delete removes the challenge for target. Missing targets are ignored.
func (r *MemoryRepository) Delete(_ context.Context, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, target)
	return nil
}

// Sweep drops challenges that expired before now and returns how many were removed.
func (r *MemoryRepository) Sweep() int {
	now := r.nowF()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, c := range r.m {
		if c.Expired(now) {
			delete(r.m, k)
			n++
		}
	}
	return n
}

// SweepEvery calls Sweep on each tick until ctx is done. onSweep, if non-nil, receives the
// number of challenges removed by each pass.
func (r *MemoryRepository) SweepEvery(ctx context.Context, interval time.Duration, onSweep func(int)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n := r.Sweep()
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}
