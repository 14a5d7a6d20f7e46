package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ertis-service/backend/internal/db"
	"github.com/ertis-service/backend/internal/models"
)

var (
	ErrNotOwner     = errors.New("request belongs to another user")
	ErrNotCompleted = errors.New("request is not completed")
	ErrNotAssigned  = errors.New("request was never assigned")
	ErrAlreadyRated = errors.New("request already rated")
)

type RatingStore interface {
	GetRequest(ctx context.Context, id int64) (models.Request, error)
	GetRatingByRequest(ctx context.Context, requestID int64) (models.Rating, error)
	CreateRatingWithRecompute(ctx context.Context, r models.Rating) (models.Rating, error)
}

type RatingService struct {
	Store  RatingStore
	Logger zerolog.Logger
}

// Rate records a citizen's score for a completed, assigned request and
// triggers the full average recompute for the rated employee. A request can
// be rated exactly once, only by its creator.
func (s *RatingService) Rate(ctx context.Context, requestID, userID int64, score int, comment *string) (models.Rating, error) {
	req, err := s.Store.GetRequest(ctx, requestID)
	if err != nil {
		return models.Rating{}, err
	}
	if req.CreatorID != userID {
		return models.Rating{}, ErrNotOwner
	}
	if req.Status != models.StatusCompleted {
		return models.Rating{}, ErrNotCompleted
	}
	if req.AssigneeID == nil {
		return models.Rating{}, ErrNotAssigned
	}

	if _, err := s.Store.GetRatingByRequest(ctx, requestID); err == nil {
		return models.Rating{}, ErrAlreadyRated
	} else if !errors.Is(err, db.ErrNotFound) {
		return models.Rating{}, err
	}

	rating, err := s.Store.CreateRatingWithRecompute(ctx, models.Rating{
		Rating:     score,
		Comment:    comment,
		RequestID:  requestID,
		UserID:     userID,
		EmployeeID: *req.AssigneeID,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return models.Rating{}, ErrAlreadyRated
		}
		return models.Rating{}, err
	}

	s.Logger.Info().Int64("request_id", requestID).Int("rating", score).Msg("rating recorded")
	return rating, nil
}
