package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ertis-service/backend/internal/ai"
	"github.com/ertis-service/backend/internal/db"
	"github.com/ertis-service/backend/internal/models"
	"github.com/ertis-service/backend/internal/storage"
)

type fakeTriageStore struct {
	category      models.Category
	categoryErr   error
	candidates    []db.CandidateEmployee
	candidatesErr error
	saveErr       error

	created *models.Request
	saved   *models.Request
}

func (f *fakeTriageStore) GetCategoryByName(ctx context.Context, name string) (models.Category, error) {
	if f.categoryErr != nil {
		return models.Category{}, f.categoryErr
	}
	return f.category, nil
}

func (f *fakeTriageStore) CreateRequest(ctx context.Context, r models.Request) (models.Request, error) {
	r.ID = 42
	f.created = &r
	return r, nil
}

func (f *fakeTriageStore) ListCandidatesByCategory(ctx context.Context, categoryID int64) ([]db.CandidateEmployee, error) {
	return f.candidates, f.candidatesErr
}

func (f *fakeTriageStore) SaveEnrichment(ctx context.Context, r models.Request) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = &r
	return nil
}

func (f *fakeTriageStore) GetEmployee(ctx context.Context, id int64) (models.Employee, error) {
	return models.Employee{ID: id}, nil
}

type stubAI struct {
	summary        string
	summaryErr     error
	priority       string
	priorityErr    error
	assignee       int64
	assigneeErr    error
	recommendation string
	recommendErr   error
}

func (s stubAI) Summarize(ctx context.Context, description, categoryName string) (string, error) {
	return s.summary, s.summaryErr
}

func (s stubAI) ClassifyPriority(ctx context.Context, photo []byte, structuredDescription, categoryName string) (string, error) {
	return s.priority, s.priorityErr
}

func (s stubAI) SelectAssignee(ctx context.Context, description, categoryName, priority string, candidates []ai.Candidate) (int64, error) {
	return s.assignee, s.assigneeErr
}

func (s stubAI) Recommend(ctx context.Context, description, categoryName, priority string) (string, error) {
	return s.recommendation, s.recommendErr
}

type captureNotifications struct {
	items []models.Notification
}

func (c *captureNotifications) InsertNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	c.items = append(c.items, n)
	return n, nil
}

func newTriage(store *fakeTriageStore, client ai.Client, dir string, inbox *captureNotifications) *TriageService {
	return &TriageService{
		Store: store,
		AI:    client,
		Files: &storage.FileStore{BaseDir: dir, MaxBytes: 1 << 20, Logger: zerolog.Nop()},
		Notifier: &Notifier{
			Store:  inbox,
			Logger: zerolog.Nop(),
		},
		Logger: zerolog.Nop(),
	}
}

func photoInput() CreateRequestInput {
	return CreateRequestInput{
		Description:   "Pipe is leaking in the basement",
		Address:       "Main street 5",
		CategoryName:  "Water supply",
		Photo:         []byte("not really an image"),
		PhotoFilename: "leak.jpg",
		CreatorID:     7,
	}
}

func TestCreateEnrichesAndAssigns(t *testing.T) {
	store := &fakeTriageStore{
		category: models.Category{ID: 3, Name: "Water supply"},
		candidates: []db.CandidateEmployee{
			{ID: 10, Name: "Aidos Serik", ActiveTickets: 2},
			{ID: 11, Name: "Bek Amanov", ActiveTickets: 0},
		},
	}
	client := stubAI{
		summary:        "Leak indicators: wet floor, dripping joint, corroded pipe.",
		priority:       "high",
		assignee:       10,
		recommendation: "A plumber is on the way.",
	}
	inbox := &captureNotifications{}
	svc := newTriage(store, client, t.TempDir(), inbox)

	req, err := svc.Create(context.Background(), photoInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.Status != models.StatusAssigned {
		t.Fatalf("expected assigned, got %s", req.Status)
	}
	if req.Priority != models.PriorityHigh {
		t.Fatalf("expected high priority, got %s", req.Priority)
	}
	if req.AssigneeID == nil || *req.AssigneeID != 10 {
		t.Fatalf("expected assignee 10, got %v", req.AssigneeID)
	}
	if req.AIDescription == nil || *req.AIDescription != client.summary {
		t.Fatalf("unexpected ai description: %v", req.AIDescription)
	}
	if req.AIRecommendation == nil || *req.AIRecommendation != client.recommendation {
		t.Fatalf("unexpected recommendation: %v", req.AIRecommendation)
	}
	if store.saved == nil {
		t.Fatal("enrichment was not persisted")
	}
	if len(inbox.items) != 1 || inbox.items[0].UserID != 7 {
		t.Fatalf("expected one notification for user 7, got %v", inbox.items)
	}
}

func TestCreateFallsBackWhenAIFails(t *testing.T) {
	store := &fakeTriageStore{
		category: models.Category{ID: 3, Name: "Water supply"},
		candidates: []db.CandidateEmployee{
			{ID: 10, ActiveTickets: 2},
			{ID: 11, ActiveTickets: 0},
		},
	}
	boom := errors.New("model unavailable")
	client := stubAI{summaryErr: boom, priorityErr: boom, assigneeErr: boom, recommendErr: boom}
	svc := newTriage(store, client, t.TempDir(), &captureNotifications{})

	in := photoInput()
	req, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.Priority != models.PriorityMedium {
		t.Fatalf("expected medium fallback, got %s", req.Priority)
	}
	if req.AIDescription == nil || *req.AIDescription != in.Description {
		t.Fatalf("expected original description as summary, got %v", req.AIDescription)
	}
	if req.AIRecommendation == nil || *req.AIRecommendation != cannedRecommendations[models.PriorityMedium] {
		t.Fatalf("expected canned recommendation, got %v", req.AIRecommendation)
	}
	if req.AssigneeID == nil || *req.AssigneeID != 11 {
		t.Fatalf("expected fallback assignee 11, got %v", req.AssigneeID)
	}
	if req.Status != models.StatusAssigned {
		t.Fatalf("expected assigned, got %s", req.Status)
	}
}

func TestCreateRejectsModelPickOutsideCandidates(t *testing.T) {
	store := &fakeTriageStore{
		category: models.Category{ID: 3, Name: "Water supply"},
		candidates: []db.CandidateEmployee{
			{ID: 10, ActiveTickets: 1},
			{ID: 11, ActiveTickets: 3},
		},
	}
	client := stubAI{summary: "s", priority: "low", assignee: 999, recommendation: "r"}
	svc := newTriage(store, client, t.TempDir(), &captureNotifications{})

	req, err := svc.Create(context.Background(), photoInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.AssigneeID == nil || *req.AssigneeID != 10 {
		t.Fatalf("expected fallback assignee 10, got %v", req.AssigneeID)
	}
}

func TestCreateWithoutPhotoSkipsEnrichment(t *testing.T) {
	store := &fakeTriageStore{category: models.Category{ID: 3, Name: "Water supply"}}
	svc := newTriage(store, stubAI{priority: "high"}, t.TempDir(), &captureNotifications{})

	in := photoInput()
	in.Photo, in.PhotoFilename = nil, ""
	req, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.Status != models.StatusPending {
		t.Fatalf("expected pending, got %s", req.Status)
	}
	if req.Priority != models.PriorityMedium {
		t.Fatalf("expected default priority, got %s", req.Priority)
	}
	if req.AIDescription != nil || req.AssigneeID != nil {
		t.Fatal("enrichment ran without a photo")
	}
	if store.saved != nil {
		t.Fatal("enrichment was persisted without a photo")
	}
}

func TestCreateUnknownCategoryFails(t *testing.T) {
	store := &fakeTriageStore{categoryErr: db.ErrNotFound}
	svc := newTriage(store, stubAI{}, t.TempDir(), &captureNotifications{})

	_, err := svc.Create(context.Background(), photoInput())
	if !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.created != nil {
		t.Fatal("request row created despite unknown category")
	}
}

func TestCreateSucceedsWithMockClientOnAnyInput(t *testing.T) {
	store := &fakeTriageStore{
		category: models.Category{ID: 3, Name: "Water supply"},
		candidates: []db.CandidateEmployee{
			{ID: 10, ActiveTickets: 2},
			{ID: 11, ActiveTickets: 0},
		},
	}
	svc := newTriage(store, ai.MockClient{}, t.TempDir(), &captureNotifications{})

	for i := 0; i < 50; i++ {
		in := photoInput()
		in.Description = fmt.Sprintf("pipe burst case %d", i)
		req, err := svc.Create(context.Background(), in)
		if err != nil {
			t.Fatalf("create %q: %v", in.Description, err)
		}
		if _, ok := models.ParsePriority(string(req.Priority)); !ok {
			t.Fatalf("create %q gave priority outside the closed set: %q", in.Description, req.Priority)
		}
		if req.AssigneeID == nil || (*req.AssigneeID != 10 && *req.AssigneeID != 11) {
			t.Fatalf("create %q gave non-candidate assignee: %v", in.Description, req.AssigneeID)
		}
	}
}

func TestCreateRestoresRequestWhenCommitFails(t *testing.T) {
	store := &fakeTriageStore{
		category:   models.Category{ID: 3, Name: "Water supply"},
		candidates: []db.CandidateEmployee{{ID: 10}},
		saveErr:    errors.New("tx failed"),
	}
	client := stubAI{summary: "s", priority: "high", assignee: 10, recommendation: "r"}
	inbox := &captureNotifications{}
	svc := newTriage(store, client, t.TempDir(), inbox)

	req, err := svc.Create(context.Background(), photoInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.Status != models.StatusPending {
		t.Fatalf("expected pending after failed commit, got %s", req.Status)
	}
	if req.Priority != models.PriorityMedium {
		t.Fatalf("expected default priority after failed commit, got %s", req.Priority)
	}
	if req.AIDescription != nil || req.AssigneeID != nil {
		t.Fatal("uncommitted enrichment leaked into the returned request")
	}
	if len(inbox.items) != 0 {
		t.Fatalf("notification sent for a failed commit: %v", inbox.items)
	}
}
