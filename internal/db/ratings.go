package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/ertis-service/backend/internal/models"
)

func (s *Store) GetRatingByRequest(ctx context.Context, requestID int64) (models.Rating, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, rating, comment, request_id, user_id, employee_id, created_at
		FROM ratings WHERE request_id = $1`, requestID)
	var r models.Rating
	err := row.Scan(&r.ID, &r.Rating, &r.Comment, &r.RequestID, &r.UserID, &r.EmployeeID, &r.CreatedAt)
	return r, mapErr(err)
}

func (s *Store) InsertRating(ctx context.Context, tx pgx.Tx, r models.Rating) (models.Rating, error) {
	row := tx.QueryRow(ctx, `
		INSERT INTO ratings (rating, comment, request_id, user_id, employee_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, rating, comment, request_id, user_id, employee_id, created_at`,
		r.Rating, r.Comment, r.RequestID, r.UserID, r.EmployeeID)
	var out models.Rating
	err := row.Scan(&out.ID, &out.Rating, &out.Comment, &out.RequestID, &out.UserID, &out.EmployeeID, &out.CreatedAt)
	return out, mapErr(err)
}

// AverageRatingForEmployee is a full recompute over every rating the employee
// has ever received, read inside the same transaction as the insert so the
// stored average cannot drift.
func (s *Store) AverageRatingForEmployee(ctx context.Context, tx pgx.Tx, employeeID int64) (float64, error) {
	var avg *float64
	row := tx.QueryRow(ctx, `SELECT AVG(rating) FROM ratings WHERE employee_id = $1`, employeeID)
	if err := row.Scan(&avg); err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// CreateRatingWithRecompute inserts the rating and refreshes the employee's
// stored average in the same transaction.
func (s *Store) CreateRatingWithRecompute(ctx context.Context, r models.Rating) (models.Rating, error) {
	var out models.Rating
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		inserted, err := s.InsertRating(ctx, tx, r)
		if err != nil {
			return err
		}
		avg, err := s.AverageRatingForEmployee(ctx, tx, r.EmployeeID)
		if err != nil {
			return err
		}
		if err := s.UpdateEmployeeAverageRating(ctx, tx, r.EmployeeID, avg); err != nil {
			return err
		}
		out = inserted
		return nil
	})
	return out, err
}

func (s *Store) ListRatingsByEmployee(ctx context.Context, employeeID int64) ([]models.Rating, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, rating, comment, request_id, user_id, employee_id, created_at
		FROM ratings WHERE employee_id = $1 ORDER BY created_at DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.ID, &r.Rating, &r.Comment, &r.RequestID, &r.UserID, &r.EmployeeID, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
