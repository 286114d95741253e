package repository

import (
	"context"
	"slices"
	"sync"

	"nss-bloodbank/backend/internal/donation/domain"
)

// MemoryRepository keeps donation records in process memory.
type MemoryRepository struct {
	mu        sync.RWMutex
	donations []*domain.Donation
}

// NewMemoryRepository returns a repository holding copies of seed.
func NewMemoryRepository(seed ...*domain.Donation) *MemoryRepository {
	r := &MemoryRepository{}
	for _, d := range seed {
		cp := *d
		r.donations = append(r.donations, &cp)
	}
	return r
}

func (r *MemoryRepository) List(_ context.Context) ([]*domain.Donation, error) {
	r.mu.RLock()
	out := make([]*domain.Donation, 0, len(r.donations))
	for _, d := range r.donations {
		cp := *d
		out = append(out, &cp)
	}
	r.mu.RUnlock()
	slices.SortStableFunc(out, func(a, b *domain.Donation) int {
		return b.DonationDate.Compare(a.DonationDate)
	})
	return out, nil
}

func (r *MemoryRepository) Insert(_ context.Context, d *domain.Donation) error {
	cp := *d
	r.mu.Lock()
	defer r.mu.Unlock()
	r.donations = append(r.donations, &cp)
	return nil
}
