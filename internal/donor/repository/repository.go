package repository

import (
	"context"
	"errors"

	"nss-bloodbank/backend/internal/donor/domain"
)

// ErrDuplicateDonor is returned by Create when the email or phone is already registered.
var ErrDuplicateDonor = errors.New("donor: already registered")

// Repository defines persistence for donors.
type Repository interface {
	// List returns donors matching f, oldest registration first.
	List(ctx context.Context, f domain.Filter) ([]*domain.Donor, error)
	Create(ctx context.Context, d *domain.Donor) error
	Count(ctx context.Context) (int, error)
}
