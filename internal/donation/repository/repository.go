package repository

import (
	"context"

	"nss-bloodbank/backend/internal/donation/domain"
)

// Repository defines access to donation records.
type Repository interface {
	// List returns every donation, most recent first.
	List(ctx context.Context) ([]*domain.Donation, error)
	Insert(ctx context.Context, d *domain.Donation) error
}
