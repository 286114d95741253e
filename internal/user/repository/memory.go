package repository

import (
	"context"
	"sync"
	"time"

	"nss-bloodbank/backend/internal/user/domain"
)

// MemoryRepository keeps users in process memory. Used when DATABASE_URL is empty and in tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

// NewMemoryRepository returns an empty in-memory user repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

// GetByID returns a copy of the user for id, or nil if not found.
func (r *MemoryRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// GetByEmail returns a copy of the user with the given email, or nil if not found.
func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	cp := *r.byID[id]
	return &cp, nil
}

// Create stores u. Returns ErrDuplicateEmail if the email is taken.
func (r *MemoryRepository) Create(_ context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	key := domain.NormalizeEmail(u.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[key]; ok {
		return ErrDuplicateEmail
	}
	cp := *u
	cp.Email = key
	r.byID[u.ID] = &cp
	r.byEmail[key] = u.ID
	return nil
}

// Update replaces the stored user. A verified phone is preserved. Unknown ids are ignored.
func (r *MemoryRepository) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[u.ID]
	if !ok {
		return nil
	}
	cp := *u
	cp.Email = domain.NormalizeEmail(u.Email)
	if cur.PhoneVerified {
		cp.Phone = cur.Phone
		cp.PhoneVerified = true
	}
	if cp.Email != cur.Email {
		delete(r.byEmail, cur.Email)
		r.byEmail[cp.Email] = cp.ID
	}
	r.byID[u.ID] = &cp
	return nil
}

// SetPhoneVerified records a verified phone once.
func (r *MemoryRepository) SetPhoneVerified(_ context.Context, userID, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok || u.PhoneVerified || u.Phone != "" {
		return nil
	}
	u.Phone = phone
	u.PhoneVerified = true
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Count returns the number of stored users.
func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}
