package repository

import (
	"context"
	"errors"

	"nss-bloodbank/backend/internal/user/domain"
)

// ErrDuplicateEmail is returned by Create when another user already owns the email.
var ErrDuplicateEmail = errors.New("user: email already registered")

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	// SetPhoneVerified sets phone and phone_verified only when user has no phone and not yet verified. No-op if already set.
	SetPhoneVerified(ctx context.Context, userID, phone string) error
	Count(ctx context.Context) (int, error)
}
