package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"nss-bloodbank/backend/internal/donor/domain"
)

const donorColumns = `id, name, email, phone, blood_group, age, address, city, state, country,
	emergency_contact, emergency_phone, medical_history, last_donation, total_donations, created_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a donor repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List builds one WHERE clause from the active predicates of f.
func (r *PostgresRepository) List(ctx context.Context, f domain.Filter) ([]*domain.Donor, error) {
	where, args := filterClause(f)
	rows, err := r.db.QueryContext(ctx, `SELECT `+donorColumns+` FROM donors`+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Donor
	for rows.Next() {
		var d domain.Donor
		var last sql.NullTime
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &d.BloodGroup, &d.Age, &d.Address,
			&d.City, &d.State, &d.Country, &d.EmergencyContact, &d.EmergencyPhone, &d.MedicalHistory,
			&last, &d.TotalDonations, &d.CreatedAt); err != nil {
			return nil, err
		}
		if last.Valid {
			t := last.Time
			d.LastDonation = &t
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// Create persists d. The donor must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, d *domain.Donor) error {
	var last sql.NullTime
	if d.LastDonation != nil {
		last = sql.NullTime{Time: *d.LastDonation, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO donors (`+donorColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		d.ID, d.Name, strings.ToLower(d.Email), d.Phone, d.BloodGroup, d.Age, d.Address, d.City, d.State,
		d.Country, d.EmergencyContact, d.EmergencyPhone, d.MedicalHistory, last, d.TotalDonations, d.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateDonor
	}
	return err
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM donors`).Scan(&n)
	return n, err
}

func filterClause(f domain.Filter) (string, []any) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		like := arg("%" + escapeLike(q) + "%")
		conds = append(conds, "(name ILIKE "+like+" OR email ILIKE "+like+" OR phone LIKE "+like+")")
	}
	for _, p := range []struct{ col, val string }{
		{"blood_group", f.BloodGroup},
		{"state", f.State},
		{"city", f.City},
	} {
		v := strings.TrimSpace(p.val)
		if v == "" || strings.EqualFold(v, domain.All) {
			continue
		}
		conds = append(conds, "LOWER("+p.col+") = LOWER("+arg(v)+")")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
