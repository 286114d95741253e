package repository

import (
	"context"
	"slices"
	"sync"

	"nss-bloodbank/backend/internal/event/domain"
)

// MemoryRepository serves a fixed set of events from process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	events []*domain.Event
}

// NewMemoryRepository returns a repository holding copies of seed.
func NewMemoryRepository(seed ...*domain.Event) *MemoryRepository {
	r := &MemoryRepository{}
	for _, e := range seed {
		cp := *e
		r.events = append(r.events, &cp)
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context, category string) ([]*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Event, 0, len(r.events))
	for _, e := range r.events {
		if e.InCategory(category) {
			cp := *e
			out = append(out, &cp)
		}
	}
	slices.SortStableFunc(out, func(a, b *domain.Event) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return compareClock(a.Time, b.Time)
	})
	return out, nil
}

func (r *MemoryRepository) CountByStatus(_ context.Context, status string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, e := range r.events {
		if e.Status == status {
			n++
		}
	}
	return n, nil
}

// compareClock orders "HH:MM" strings; zero-padded values compare lexically.
func compareClock(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
