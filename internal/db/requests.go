package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ertis-service/backend/internal/models"
)

const requestColumns = `id, description, problem_type, address, latitude, longitude, photo_url,
	ai_description, ai_category, ai_recommendation, status, priority,
	completion_photo_url, completion_note, completed_at,
	category_id, creator_id, assignee_id, created_at`

// priorityOrder sorts the text enum by urgency inside SQL.
const priorityOrder = `CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END`

func scanRequest(row interface{ Scan(...any) error }) (models.Request, error) {
	var r models.Request
	err := row.Scan(&r.ID, &r.Description, &r.ProblemType, &r.Address, &r.Latitude, &r.Longitude, &r.PhotoURL,
		&r.AIDescription, &r.AICategory, &r.AIRecommendation, &r.Status, &r.Priority,
		&r.CompletionPhotoURL, &r.CompletionNote, &r.CompletedAt,
		&r.CategoryID, &r.CreatorID, &r.AssigneeID, &r.CreatedAt)
	return r, mapErr(err)
}

func (s *Store) CreateRequest(ctx context.Context, r models.Request) (models.Request, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO requests (description, problem_type, address, latitude, longitude, photo_url,
			status, priority, category_id, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+requestColumns,
		r.Description, r.ProblemType, r.Address, r.Latitude, r.Longitude, r.PhotoURL,
		r.Status, r.Priority, r.CategoryID, r.CreatorID)
	return scanRequest(row)
}

func (s *Store) GetRequest(ctx context.Context, id int64) (models.Request, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id)
	return scanRequest(row)
}

func (s *Store) queryRequests(ctx context.Context, query string, args ...any) ([]models.Request, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListRequestsForMap returns the most recent open requests that carry
// coordinates, capped at 100 rows. Public data.
func (s *Store) ListRequestsForMap(ctx context.Context) ([]models.Request, error) {
	return s.queryRequests(ctx, `
		SELECT `+requestColumns+` FROM requests
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		  AND status IN ('pending', 'assigned', 'in_progress')
		ORDER BY created_at DESC
		LIMIT 100`)
}

func (s *Store) ListRequestsByCreator(ctx context.Context, creatorID int64) ([]models.Request, error) {
	return s.queryRequests(ctx, `
		SELECT `+requestColumns+` FROM requests
		WHERE creator_id = $1
		ORDER BY created_at DESC`, creatorID)
}

func (s *Store) ListRequestsByAssignee(ctx context.Context, employeeID int64) ([]models.Request, error) {
	return s.queryRequests(ctx, `
		SELECT `+requestColumns+` FROM requests
		WHERE assignee_id = $1
		ORDER BY `+priorityOrder+` DESC, created_at ASC`, employeeID)
}

type RequestFilter struct {
	Status     *models.RequestStatus
	CategoryID *int64
	Priority   *models.Priority
}

func (s *Store) ListRequests(ctx context.Context, f RequestFilter) ([]models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests`
	var args []any
	var wheres []string
	if f.Status != nil {
		args = append(args, *f.Status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		wheres = append(wheres, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.Priority != nil {
		args = append(args, *f.Priority)
		wheres = append(wheres, fmt.Sprintf("priority = $%d", len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY " + priorityOrder + " DESC, created_at DESC"
	return s.queryRequests(ctx, query, args...)
}

// ApplyEnrichment writes the triage pipeline's results in one transaction.
// Only enrichment fields change; the base row stays as created.
func (s *Store) ApplyEnrichment(ctx context.Context, tx pgx.Tx, r models.Request) error {
	_, err := tx.Exec(ctx, `
		UPDATE requests
		SET ai_description = $2, ai_category = $3, ai_recommendation = $4,
		    priority = $5, status = $6, assignee_id = $7
		WHERE id = $1`,
		r.ID, r.AIDescription, r.AICategory, r.AIRecommendation, r.Priority, r.Status, r.AssigneeID)
	return err
}

// SaveEnrichment commits the full enrichment as one transaction.
func (s *Store) SaveEnrichment(ctx context.Context, r models.Request) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		return s.ApplyEnrichment(ctx, tx, r)
	})
}

func (s *Store) AssignRequest(ctx context.Context, id, employeeID int64, status models.RequestStatus) (models.Request, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE requests SET assignee_id = $2, status = $3
		WHERE id = $1
		RETURNING `+requestColumns, id, employeeID, status)
	return scanRequest(row)
}

func (s *Store) StartRequest(ctx context.Context, id int64) (models.Request, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE requests SET status = 'in_progress'
		WHERE id = $1
		RETURNING `+requestColumns, id)
	return scanRequest(row)
}

func (s *Store) CompleteRequest(ctx context.Context, id int64, photoURL, note *string, completedAt time.Time) (models.Request, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE requests
		SET status = 'completed',
		    completion_photo_url = COALESCE($2, completion_photo_url),
		    completion_note = COALESCE($3, completion_note),
		    completed_at = $4
		WHERE id = $1
		RETURNING `+requestColumns, id, photoURL, note, completedAt)
	return scanRequest(row)
}

func (s *Store) CloseRequest(ctx context.Context, id int64, reason *string, closedAt time.Time) (models.Request, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE requests
		SET status = 'closed',
		    completion_note = COALESCE($2, completion_note),
		    completed_at = COALESCE(completed_at, $3)
		WHERE id = $1
		RETURNING `+requestColumns, id, reason, closedAt)
	return scanRequest(row)
}
