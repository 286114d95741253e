package repository

import (
	"context"
	"sync"

	"nss-bloodbank/backend/internal/bloodrequest/domain"
)

// MemoryRepository keeps blood requests in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	requests []*domain.Request
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(_ context.Context, req *domain.Request) error {
	cp := *req
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, &cp)
	return nil
}

func (r *MemoryRepository) ListRecent(_ context.Context, limit int) ([]*domain.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Request, 0, min(limit, len(r.requests)))
	for i := len(r.requests) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.requests[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MemoryRepository) CountByStatus(_ context.Context, status string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, req := range r.requests {
		if req.Status == status {
			n++
		}
	}
	return n, nil
}
