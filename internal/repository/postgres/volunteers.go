package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"volunteerHub/internal/logger"
	"volunteerHub/internal/models/volunteer"
)

const volunteerColumns = `uuid, name, email, phone, cnic, city, area, university, skills,
	domains, role, password_hash, status, created_at, updated_at`

func scanVolunteer(row pgx.Row) (*volunteer.Volunteer, error) {
	v := &volunteer.Volunteer{}
	err := row.Scan(
		&v.UUID,
		&v.Name,
		&v.Email,
		&v.Phone,
		&v.CNIC,
		&v.City,
		&v.Area,
		&v.University,
		&v.Skills,
		&v.Domains,
		&v.Role,
		&v.PasswordHash,
		&v.Status,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Storage) CreateVolunteer(ctx context.Context, v *volunteer.Volunteer) error {
	start := time.Now()
	defer warnIfSlow("create_volunteer", start)

	query := `INSERT INTO volunteers
				(uuid, name, email, phone, cnic, city, area, university, skills,
				 domains, role, password_hash, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		v.UUID,
		v.Name,
		v.Email,
		v.Phone,
		v.CNIC,
		v.City,
		v.Area,
		v.University,
		v.Skills,
		v.Domains,
		v.Role,
		v.PasswordHash,
		v.Status,
	).Scan(&v.CreatedAt)
	if err != nil {
		err = mapError(err)
		logger.Error("Repository: failed to insert volunteer", err)
		return fmt.Errorf("insert volunteer: %w", err)
	}
	return nil
}

func (s *Storage) GetVolunteerByID(ctx context.Context, id uuid.UUID) (*volunteer.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE uuid = $1`

	v, err := scanVolunteer(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get volunteer %s: %w", id, mapError(err))
	}
	return v, nil
}

func (s *Storage) GetVolunteerByEmail(ctx context.Context, email string) (*volunteer.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE email = $1`

	v, err := scanVolunteer(s.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("get volunteer by email: %w", mapError(err))
	}
	return v, nil
}

func (s *Storage) ListVolunteers(ctx context.Context) ([]*volunteer.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers ORDER BY created_at DESC`
	return s.queryVolunteers(ctx, "list_volunteers", query)
}

func (s *Storage) ListVolunteersInDomain(ctx context.Context, domain string, role volunteer.Role) ([]*volunteer.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + `
			FROM volunteers
			WHERE $1 = ANY(domains) AND role = $2
			ORDER BY created_at`
	return s.queryVolunteers(ctx, "list_volunteers_in_domain", query, domain, role)
}

func (s *Storage) FindVolunteerIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `SELECT uuid FROM volunteers WHERE uuid = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("find volunteer ids: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("collect volunteer ids: %w", err)
	}
	return found, nil
}

func (s *Storage) queryVolunteers(ctx context.Context, operation, query string, args ...any) ([]*volunteer.Volunteer, error) {
	start := time.Now()
	defer warnIfSlow(operation, start)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: failed to query volunteers", err)
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer rows.Close()

	volunteers := []*volunteer.Volunteer{}
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan volunteer: %w", err)
		}
		volunteers = append(volunteers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate volunteers: %w", err)
	}
	return volunteers, nil
}
