package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nss-bloodbank/backend/internal/identity/domain"
	"nss-bloodbank/backend/internal/security"
	userdomain "nss-bloodbank/backend/internal/user/domain"
	userrepo "nss-bloodbank/backend/internal/user/repository"
)

// UserRepo is the minimal user repository needed by the local backend.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
}

// LocalBackend authenticates users stored in the user repository with bcrypt password hashes.
type LocalBackend struct {
	users  UserRepo
	hasher *security.Hasher
	admins AdminList
	now    func() time.Time
}

// NewLocalBackend returns a LocalBackend. Emails in admins get the admin flag at registration.
func NewLocalBackend(users UserRepo, hasher *security.Hasher, admins AdminList) *LocalBackend {
	return &LocalBackend{users: users, hasher: hasher, admins: admins, now: time.Now}
}

// Login looks the user up by email and compares the bcrypt hash. Unknown users cost one bcrypt
// comparison too.
func (b *LocalBackend) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = userdomain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := b.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || u.PasswordHash == "" {
		_ = b.hasher.CompareMissing([]byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := b.hasher.Compare(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.Active() {
		return nil, ErrInvalidCredentials
	}
	return userIdentity(u), nil
}

// Register stores a new active user. An existing email yields ErrRegistrationFailed.
func (b *LocalBackend) Register(ctx context.Context, in RegisterInput) (*domain.Identity, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	existing, err := b.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrRegistrationFailed)
	}
	hashed, err := b.hasher.Hash([]byte(in.Password))
	if err != nil {
		return nil, err
	}
	now := b.now().UTC()
	u := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hashed,
		IsAdmin:      b.admins.Contains(in.Email),
		Status:       userdomain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := b.users.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: email already registered", ErrRegistrationFailed)
		}
		return nil, err
	}
	return userIdentity(u), nil
}

func (b *LocalBackend) Logout(context.Context, *domain.Identity) error { return nil }

func (b *LocalBackend) ProviderRedirectURL(string) (string, error) {
	return "", ErrProviderUnavailable
}

func (b *LocalBackend) CompleteProviderSignIn(context.Context, string) (*domain.Identity, error) {
	return nil, ErrProviderUnavailable
}

func userIdentity(u *userdomain.User) *domain.Identity {
	name := u.Name
	if name == "" {
		name = strings.SplitN(u.Email, "@", 2)[0]
	}
	return &domain.Identity{
		ID:       u.ID,
		Name:     name,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
		Provider: domain.IdentityProviderLocal,
	}
}
