package repository

import (
	"context"
	"database/sql"

	"nss-bloodbank/backend/internal/contact/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a contact message repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists m. The message must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, m *domain.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_messages (id, name, email, phone, subject, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Message, m.CreatedAt)
	return err
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, phone, subject, message, created_at
		 FROM contact_messages ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
