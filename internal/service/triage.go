package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ertis-service/backend/internal/ai"
	"github.com/ertis-service/backend/internal/db"
	"github.com/ertis-service/backend/internal/models"
	"github.com/ertis-service/backend/internal/storage"
)

// TriageStore is the slice of the entity store the triage pipeline touches.
type TriageStore interface {
	GetCategoryByName(ctx context.Context, name string) (models.Category, error)
	CreateRequest(ctx context.Context, r models.Request) (models.Request, error)
	ListCandidatesByCategory(ctx context.Context, categoryID int64) ([]db.CandidateEmployee, error)
	SaveEnrichment(ctx context.Context, r models.Request) error
	GetEmployee(ctx context.Context, id int64) (models.Employee, error)
}

type CreateRequestInput struct {
	Description   string
	Address       string
	CategoryName  string
	ProblemType   *string
	Latitude      *float64
	Longitude     *float64
	Photo         []byte
	PhotoFilename string
	CreatorID     int64
}

// TriageService runs the request creation pipeline: category lookup, photo
// storage, then a best-effort AI enrichment pass. Only the category lookup and
// the photo validation can fail the whole creation; every enrichment stage
// produces a value (real or fallback) and moves on.
type TriageService struct {
	Store     TriageStore
	AI        ai.Client
	Files     *storage.FileStore
	Notifier  *Notifier
	Logger    zerolog.Logger
	AITimeout time.Duration
}

func (s *TriageService) Create(ctx context.Context, in CreateRequestInput) (models.Request, error) {
	category, err := s.Store.GetCategoryByName(ctx, in.CategoryName)
	if err != nil {
		return models.Request{}, err
	}

	var photoPath string
	if len(in.Photo) > 0 {
		photoPath, err = s.Files.Save(in.Photo, in.PhotoFilename, "requests")
		if err != nil {
			return models.Request{}, err
		}
	}

	req := models.Request{
		Description: in.Description,
		ProblemType: in.ProblemType,
		Address:     in.Address,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Status:      models.StatusPending,
		Priority:    models.PriorityMedium,
		CategoryID:  category.ID,
		CreatorID:   in.CreatorID,
	}
	if photoPath != "" {
		req.PhotoURL = &photoPath
	}

	req, err = s.Store.CreateRequest(ctx, req)
	if err != nil {
		if photoPath != "" {
			s.Files.Delete(photoPath)
		}
		return models.Request{}, err
	}

	if photoPath != "" {
		// The base row is committed; a client disconnect must not undo
		// anything the enrichment writes from here on.
		s.enrich(context.WithoutCancel(ctx), &req, category, in.Photo)
	}

	s.Logger.Info().Int64("request_id", req.ID).Int64("creator_id", in.CreatorID).Msg("request created")
	return req, nil
}

// enrich mutates req in place. On a failed commit the in-memory request is
// restored to its persisted state so the caller never sees fields that did
// not land.
func (s *TriageService) enrich(ctx context.Context, req *models.Request, category models.Category, photo []byte) {
	base := *req

	summary := s.summarize(ctx, req.Description, category.Name)
	priority := s.classifyPriority(ctx, photo, summary, category.Name)
	recommendation := s.recommend(ctx, req.Description, category.Name, priority)

	req.AIDescription = &summary
	req.AICategory = &category.Name
	req.AIRecommendation = &recommendation
	req.Priority = priority

	candidates, err := s.Store.ListCandidatesByCategory(ctx, category.ID)
	if err != nil {
		s.Logger.Error().Err(err).Int64("request_id", req.ID).Msg("candidate lookup failed")
		candidates = nil
	}

	var assignedName string
	if len(candidates) > 0 {
		id := s.selectAssignee(ctx, req.Description, category.Name, priority, candidates)
		req.AssigneeID = &id
		req.Status = models.StatusAssigned
		for _, c := range candidates {
			if c.ID == id {
				assignedName = c.Name
			}
		}
	}

	if err := s.Store.SaveEnrichment(ctx, *req); err != nil {
		s.Logger.Error().Err(err).Int64("request_id", req.ID).Msg("enrichment commit failed, request stays pending")
		*req = base
		return
	}

	if req.Status == models.StatusAssigned && s.Notifier != nil {
		s.Notifier.RequestAssigned(ctx, req.CreatorID, req.ID, assignedName)
	}
}

func (s *TriageService) summarize(ctx context.Context, description, categoryName string) string {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	summary, err := s.AI.Summarize(callCtx, description, categoryName)
	if err != nil || strings.TrimSpace(summary) == "" {
		s.Logger.Warn().Err(err).Msg("summarize failed, keeping original description")
		return description
	}
	return summary
}

func (s *TriageService) classifyPriority(ctx context.Context, photo []byte, summary, categoryName string) models.Priority {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	label, err := s.AI.ClassifyPriority(callCtx, photo, summary, categoryName)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("priority classification failed, using default")
		return models.PriorityMedium
	}
	priority, ok := models.ParsePriority(strings.ToLower(strings.TrimSpace(label)))
	if !ok {
		s.Logger.Warn().Str("label", label).Msg("priority label outside the closed set, using default")
		return models.PriorityMedium
	}
	return priority
}

var cannedRecommendations = map[models.Priority]string{
	models.PriorityHigh:   "Your ticket has been accepted and marked urgent. A technician will be dispatched as soon as possible; expect contact within hours.",
	models.PriorityMedium: "Your ticket has been accepted. A technician will look into it within the next few days and you will be notified of every status change.",
	models.PriorityLow:    "Your ticket has been accepted. It has been scheduled and will be handled during regular maintenance rounds.",
}

func (s *TriageService) recommend(ctx context.Context, description, categoryName string, priority models.Priority) string {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	text, err := s.AI.Recommend(callCtx, description, categoryName, string(priority))
	if err != nil || strings.TrimSpace(text) == "" {
		s.Logger.Warn().Err(err).Msg("recommendation failed, using canned message")
		return cannedRecommendations[priority]
	}
	return text
}

func (s *TriageService) selectAssignee(ctx context.Context, description, categoryName string, priority models.Priority, candidates []db.CandidateEmployee) int64 {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	id, err := s.AI.SelectAssignee(callCtx, description, categoryName, string(priority), toCandidates(candidates))
	if err != nil {
		s.Logger.Warn().Err(err).Msg("assignee selection failed, using local fallback")
		return FallbackAssignee(candidates)
	}
	for _, c := range candidates {
		if c.ID == id {
			return id
		}
	}
	s.Logger.Warn().Int64("employee_id", id).Msg("assignee outside the candidate set, using local fallback")
	return FallbackAssignee(candidates)
}

func (s *TriageService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.AITimeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

func toCandidates(rows []db.CandidateEmployee) []ai.Candidate {
	out := make([]ai.Candidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, ai.Candidate{
			ID:            r.ID,
			Name:          r.Name,
			Specialty:     r.Specialty,
			Rating:        r.AverageRating,
			ActiveTickets: r.ActiveTickets,
		})
	}
	return out
}
