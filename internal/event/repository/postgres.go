package repository

import (
	"context"
	"database/sql"
	"strings"

	"nss-bloodbank/backend/internal/event/domain"
)

const eventColumns = `id, title, description, event_date, event_time, location, organizer,
	expected_donors, registered_donors, status, category`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an event repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, category string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	var args []any
	if c := strings.TrimSpace(category); c != "" && !strings.EqualFold(c, domain.AllCategories) {
		query += ` WHERE LOWER(category) = LOWER($1)`
		args = append(args, c)
	}
	rows, err := r.db.QueryContext(ctx, query+` ORDER BY event_date, event_time`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Time, &e.Location,
			&e.Organizer, &e.ExpectedDonors, &e.RegisteredDonors, &e.Status, &e.Category); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE status = $1`, status).Scan(&n)
	return n, err
}

// Insert stores e, replacing any event with the same ID. Used by the seeder.
func (r *PostgresRepository) Insert(ctx context.Context, e *domain.Event) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description,
			event_date = EXCLUDED.event_date, event_time = EXCLUDED.event_time, location = EXCLUDED.location,
			organizer = EXCLUDED.organizer, expected_donors = EXCLUDED.expected_donors,
			registered_donors = EXCLUDED.registered_donors, status = EXCLUDED.status, category = EXCLUDED.category`,
		e.ID, e.Title, e.Description, e.Date, e.Time, e.Location, e.Organizer, e.ExpectedDonors,
		e.RegisteredDonors, e.Status, e.Category)
	return err
}
