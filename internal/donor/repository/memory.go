package repository

import (
	"context"
	"strings"
	"sync"

	"nss-bloodbank/backend/internal/donor/domain"
)

// MemoryRepository keeps donors in process memory. Used when DATABASE_URL is empty and in tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	donors []*domain.Donor
}

// NewMemoryRepository returns a repository holding copies of seed.
func NewMemoryRepository(seed ...*domain.Donor) *MemoryRepository {
	r := &MemoryRepository{}
	for _, d := range seed {
		cp := *d
		r.donors = append(r.donors, &cp)
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context, f domain.Filter) ([]*domain.Donor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Donor, 0, len(r.donors))
	for _, d := range r.donors {
		if f.Matches(d) {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Create appends d. Email is compared case-insensitively, phone by exact value.
func (r *MemoryRepository) Create(_ context.Context, d *domain.Donor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cur := range r.donors {
		if strings.EqualFold(cur.Email, d.Email) || cur.Phone == d.Phone {
			return ErrDuplicateDonor
		}
	}
	cp := *d
	r.donors = append(r.donors, &cp)
	return nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.donors), nil
}
