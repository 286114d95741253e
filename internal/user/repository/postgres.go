package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"nss-bloodbank/backend/internal/user/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, email, name, phone, phone_verified, password_hash, is_admin, status, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail returns the user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, domain.NormalizeEmail(email))
	return scanUser(row)
}

// Create persists the user. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, domain.NormalizeEmail(u.Email), u.Name, u.Phone, u.PhoneVerified, u.PasswordHash,
		u.IsAdmin, string(u.Status), u.CreatedAt, u.UpdatedAt)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

// Update updates the existing user record. If the user has a verified phone, it is not overwritten.
func (r *PostgresRepository) Update(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = $2, name = $3,
			phone = CASE WHEN phone_verified THEN phone ELSE $4 END,
			password_hash = $5, is_admin = $6, status = $7, updated_at = $8
		 WHERE id = $1`,
		u.ID, domain.NormalizeEmail(u.Email), u.Name, u.Phone, u.PasswordHash, u.IsAdmin,
		string(u.Status), u.UpdatedAt)
	return err
}

// SetPhoneVerified sets the user's phone and phone_verified only when phone is currently empty and not verified.
func (r *PostgresRepository) SetPhoneVerified(ctx context.Context, userID, phone string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET phone = $2, phone_verified = TRUE, updated_at = $3
		 WHERE id = $1 AND phone = '' AND NOT phone_verified`,
		userID, phone, time.Now().UTC())
	return err
}

// Count returns the number of users.
func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var status string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.PhoneVerified, &u.PasswordHash,
		&u.IsAdmin, &status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Status = domain.UserStatus(status)
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
