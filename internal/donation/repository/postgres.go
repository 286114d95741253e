package repository

import (
	"context"
	"database/sql"

	"nss-bloodbank/backend/internal/donation/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a donation repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Donation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, donor_name, blood_group, donation_date, location, units, status
		 FROM donations ORDER BY donation_date DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Donation
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(&d.ID, &d.DonorName, &d.BloodGroup, &d.DonationDate, &d.Location, &d.Units, &d.Status); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// Insert stores d, ignoring a record whose ID already exists.
func (r *PostgresRepository) Insert(ctx context.Context, d *domain.Donation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO donations (id, donor_name, blood_group, donation_date, location, units, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO NOTHING`,
		d.ID, d.DonorName, d.BloodGroup, d.DonationDate, d.Location, d.Units, d.Status)
	return err
}
