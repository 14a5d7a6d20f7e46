package db

import (
	"context"

	"github.com/ertis-service/backend/internal/models"
)

func (s *Store) InsertNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, title, message, type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, title, message, type, is_read, created_at`,
		n.UserID, n.Title, n.Message, n.Type)
	var out models.Notification
	err := row.Scan(&out.ID, &out.UserID, &out.Title, &out.Message, &out.Type, &out.IsRead, &out.CreatedAt)
	return out, mapErr(err)
}

func (s *Store) ListNotificationsByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, user_id, title, message, type, is_read, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) GetNotification(ctx context.Context, id int64) (models.Notification, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, user_id, title, message, type, is_read, created_at
		FROM notifications WHERE id = $1`, id)
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt)
	return n, mapErr(err)
}

func (s *Store) MarkNotificationRead(ctx context.Context, id int64) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
