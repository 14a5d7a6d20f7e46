package db

import (
	"context"
	"time"

	"github.com/ertis-service/backend/internal/models"
)

type OverviewStats struct {
	TotalRequests      int64                  `json:"total_requests"`
	RecentRequests30d  int64                  `json:"recent_requests_30_days"`
	StatusDistribution map[string]int64       `json:"status_distribution"`
	TotalEmployees     int64                  `json:"total_employees"`
	AvgEmployeeRating  float64                `json:"average_employee_rating"`
	AvgCompletionHours float64                `json:"average_completion_time_hours"`
	RequestsByCategory map[string]int64       `json:"requests_by_category"`
	TopEmployees       []TopEmployee          `json:"top_employees"`
}

type TopEmployee struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

func (s *Store) OverviewStatistics(ctx context.Context) (OverviewStats, error) {
	out := OverviewStats{
		StatusDistribution: map[string]int64{},
		RequestsByCategory: map[string]int64{},
	}

	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM requests`).Scan(&out.TotalRequests); err != nil {
		return out, err
	}
	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM requests WHERE created_at >= $1`,
		time.Now().UTC().Add(-30*24*time.Hour)).Scan(&out.RecentRequests30d); err != nil {
		return out, err
	}

	rows, err := s.Pool.Query(ctx, `SELECT status, COUNT(*) FROM requests GROUP BY status`)
	if err != nil {
		return out, err
	}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return out, err
		}
		out.StatusDistribution[status] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return out, err
	}

	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(*), COALESCE(AVG(average_rating), 0) FROM employees`).
		Scan(&out.TotalEmployees, &out.AvgEmployeeRating); err != nil {
		return out, err
	}

	if err := s.Pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM completed_at - created_at) / 3600), 0)
		FROM requests
		WHERE status = 'completed' AND completed_at IS NOT NULL`).Scan(&out.AvgCompletionHours); err != nil {
		return out, err
	}

	rows, err = s.Pool.Query(ctx, `
		SELECT c.name, COUNT(r.id)
		FROM categories c JOIN requests r ON r.category_id = c.id
		GROUP BY c.name`)
	if err != nil {
		return out, err
	}
	for rows.Next() {
		var name string
		var count int64
		if err := rows.Scan(&name, &count); err != nil {
			rows.Close()
			return out, err
		}
		out.RequestsByCategory[name] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return out, err
	}

	rows, err = s.Pool.Query(ctx, `
		SELECT id, first_name || ' ' || last_name, average_rating
		FROM employees ORDER BY average_rating DESC LIMIT 5`)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var e TopEmployee
		if err := rows.Scan(&e.ID, &e.Name, &e.Rating); err != nil {
			return out, err
		}
		out.TopEmployees = append(out.TopEmployees, e)
	}
	return out, rows.Err()
}

type EmployeeStats struct {
	EmployeeID         int64         `json:"employee_id"`
	Name               string        `json:"name"`
	AverageRating      float64       `json:"average_rating"`
	TotalRequests      int64         `json:"total_requests"`
	CompletedRequests  int64         `json:"completed_requests"`
	ActiveRequests     int64         `json:"active_requests"`
	CompletionRate     float64       `json:"completion_rate"`
	RatingDistribution map[int]int64 `json:"rating_distribution"`
	TotalRatings       int64         `json:"total_ratings"`
}

func (s *Store) EmployeeStatistics(ctx context.Context, employeeID int64) (EmployeeStats, error) {
	emp, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return EmployeeStats{}, err
	}

	out := EmployeeStats{
		EmployeeID:         emp.ID,
		Name:               emp.FullName(),
		AverageRating:      emp.AverageRating,
		RatingDistribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	if err := s.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COUNT(*) FILTER (WHERE status IN ('assigned', 'in_progress'))
		FROM requests WHERE assignee_id = $1`, employeeID).
		Scan(&out.TotalRequests, &out.CompletedRequests, &out.ActiveRequests); err != nil {
		return out, err
	}
	if out.TotalRequests > 0 {
		out.CompletionRate = float64(out.CompletedRequests) / float64(out.TotalRequests) * 100
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT rating, COUNT(*) FROM ratings WHERE employee_id = $1 GROUP BY rating`, employeeID)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var rating int
		var count int64
		if err := rows.Scan(&rating, &count); err != nil {
			return out, err
		}
		out.RatingDistribution[rating] = count
		out.TotalRatings += count
	}
	return out, rows.Err()
}

func (s *Store) RequestCountsByPriority(ctx context.Context) (map[string]int64, error) {
	out := map[string]int64{
		string(models.PriorityLow):    0,
		string(models.PriorityMedium): 0,
		string(models.PriorityHigh):   0,
	}
	rows, err := s.Pool.Query(ctx, `SELECT priority, COUNT(*) FROM requests GROUP BY priority`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var priority string
		var count int64
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		out[priority] = count
	}
	return out, rows.Err()
}
