package repository

import (
	"context"
	"sync"

	"nss-bloodbank/backend/internal/contact/domain"
)

// MemoryRepository keeps contact messages in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	messages []*domain.Message
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(_ context.Context, m *domain.Message) error {
	cp := *m
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *MemoryRepository) ListRecent(_ context.Context, limit int) ([]*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Message, 0, min(limit, len(r.messages)))
	for i := len(r.messages) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.messages[i]
		out = append(out, &cp)
	}
	return out, nil
}
