package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ertis-service/backend/internal/models"
)

const employeeColumns = `id, first_name, last_name, username, password_hash, photo_url, average_rating, specialty_id, organization_id, created_at`

func scanEmployee(row interface{ Scan(...any) error }) (models.Employee, error) {
	var e models.Employee
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Username, &e.PasswordHash, &e.PhotoURL,
		&e.AverageRating, &e.SpecialtyID, &e.OrganizationID, &e.CreatedAt)
	return e, mapErr(err)
}

func (s *Store) CreateEmployee(ctx context.Context, e models.Employee) (models.Employee, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO employees (first_name, last_name, username, password_hash, photo_url, specialty_id, organization_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+employeeColumns,
		e.FirstName, e.LastName, e.Username, e.PasswordHash, e.PhotoURL, e.SpecialtyID, e.OrganizationID)
	return scanEmployee(row)
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (models.Employee, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	return scanEmployee(row)
}

func (s *Store) GetEmployeeByUsername(ctx context.Context, username string) (models.Employee, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE username = $1`, username)
	return scanEmployee(row)
}

func (s *Store) ListEmployees(ctx context.Context, organizationID, specialtyID *int64) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees`
	var args []any
	var wheres []string
	if organizationID != nil {
		args = append(args, *organizationID)
		wheres = append(wheres, fmt.Sprintf("organization_id = $%d", len(args)))
	}
	if specialtyID != nil {
		args = append(args, *specialtyID)
		wheres = append(wheres, fmt.Sprintf("specialty_id = $%d", len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY average_rating DESC, id ASC"

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) UpdateEmployee(ctx context.Context, id int64, firstName, lastName, photoURL *string, specialtyID, organizationID *int64) (models.Employee, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE employees
		SET first_name = COALESCE($2, first_name),
		    last_name = COALESCE($3, last_name),
		    photo_url = COALESCE($4, photo_url),
		    specialty_id = COALESCE($5, specialty_id),
		    organization_id = COALESCE($6, organization_id)
		WHERE id = $1
		RETURNING `+employeeColumns, id, firstName, lastName, photoURL, specialtyID, organizationID)
	return scanEmployee(row)
}

func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateEmployeeAverageRating(ctx context.Context, tx pgx.Tx, employeeID int64, avg float64) error {
	_, err := tx.Exec(ctx, `UPDATE employees SET average_rating = $2 WHERE id = $1`, employeeID, avg)
	return err
}

// CandidateEmployee is the view the triage pipeline hands to the inference
// client: one row per employee whose specialty belongs to the category, with
// the live count of their open tickets.
type CandidateEmployee struct {
	ID            int64
	Name          string
	Specialty     string
	AverageRating float64
	ActiveTickets int
}

// ListCandidatesByCategory re-queries active-ticket counts at call time rather
// than trusting any cached counter.
func (s *Store) ListCandidatesByCategory(ctx context.Context, categoryID int64) ([]CandidateEmployee, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT e.id,
		       e.first_name || ' ' || e.last_name,
		       sp.name,
		       e.average_rating,
		       (SELECT COUNT(*) FROM requests r
		        WHERE r.assignee_id = e.id AND r.status IN ('assigned', 'in_progress'))
		FROM employees e
		JOIN specialties sp ON sp.id = e.specialty_id
		WHERE sp.category_id = $1
		ORDER BY e.id`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CandidateEmployee
	for rows.Next() {
		var c CandidateEmployee
		if err := rows.Scan(&c.ID, &c.Name, &c.Specialty, &c.AverageRating, &c.ActiveTickets); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
