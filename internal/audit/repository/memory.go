package repository

import (
	"context"
	"sync"

	"nss-bloodbank/backend/internal/audit/domain"
)

// MemoryRepository is an append-only in-memory audit log capped at Capacity entries.
type MemoryRepository struct {
	Capacity int

	mu      sync.RWMutex
	entries []*domain.AuditLog
}

// NewMemoryRepository returns a repository keeping at most capacity entries (0 means 1000).
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryRepository{Capacity: capacity}
}

func (r *MemoryRepository) Create(_ context.Context, a *domain.AuditLog) error {
	cp := *a
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, &cp)
	if over := len(r.entries) - r.Capacity; over > 0 {
		r.entries = append([]*domain.AuditLog(nil), r.entries[over:]...)
	}
	return nil
}

func (r *MemoryRepository) ListRecent(_ context.Context, limit, offset int) ([]*domain.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.AuditLog, 0, limit)
	for i := len(r.entries) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		cp := *r.entries[i]
		out = append(out, &cp)
	}
	return out, nil
}
