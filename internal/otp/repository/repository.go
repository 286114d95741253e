package repository

import (
	"context"

	"nss-bloodbank/backend/internal/otp/domain"
)

// Repository holds at most one challenge per target.
type Repository interface {
	// Put stores c under c.Target, replacing any previous challenge for that target.
	Put(ctx context.Context, c *domain.Challenge) error
	// Get returns the challenge for target, or nil if none.
	Get(ctx context.Context, target string) (*domain.Challenge, error)
	// IncrementAttempts records one failed guess and returns the new count. Returns 0 if no challenge exists.
	IncrementAttempts(ctx context.Context, target string) (int, error)
	Delete(ctx context.Context, target string) error
}
