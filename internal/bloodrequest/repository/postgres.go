package repository

import (
	"context"
	"database/sql"

	"nss-bloodbank/backend/internal/bloodrequest/domain"
)

const requestColumns = `id, patient_name, blood_group, units, urgency, hospital_name, city, state,
	contact_person, contact_phone, required_by, additional_info, status, created_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a blood request repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists req. The request must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, req *domain.Request) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO blood_requests (`+requestColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		req.ID, req.PatientName, req.BloodGroup, req.Units, req.Urgency, req.HospitalName, req.City,
		req.State, req.ContactPerson, req.ContactPhone, req.RequiredBy, req.AdditionalInfo, req.Status,
		req.CreatedAt)
	return err
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Request, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM blood_requests ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Request
	for rows.Next() {
		var req domain.Request
		var requiredBy sql.NullTime
		if err := rows.Scan(&req.ID, &req.PatientName, &req.BloodGroup, &req.Units, &req.Urgency,
			&req.HospitalName, &req.City, &req.State, &req.ContactPerson, &req.ContactPhone,
			&requiredBy, &req.AdditionalInfo, &req.Status, &req.CreatedAt); err != nil {
			return nil, err
		}
		req.RequiredBy = requiredBy.Time
		out = append(out, &req)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blood_requests WHERE status = $1`, status).Scan(&n)
	return n, err
}
