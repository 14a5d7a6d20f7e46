package service

import (
	"testing"

	"github.com/ertis-service/backend/internal/db"
)

func TestFallbackAssigneePrefersLowestLoad(t *testing.T) {
	got := FallbackAssignee([]db.CandidateEmployee{
		{ID: 1, ActiveTickets: 4, AverageRating: 5},
		{ID: 2, ActiveTickets: 1, AverageRating: 2},
		{ID: 3, ActiveTickets: 3, AverageRating: 4.9},
	})
	if got != 2 {
		t.Fatalf("expected employee 2, got %d", got)
	}
}

func TestFallbackAssigneeBreaksLoadTieByRating(t *testing.T) {
	got := FallbackAssignee([]db.CandidateEmployee{
		{ID: 1, ActiveTickets: 2, AverageRating: 3.5},
		{ID: 2, ActiveTickets: 2, AverageRating: 4.8},
		{ID: 3, ActiveTickets: 2, AverageRating: 4.1},
	})
	if got != 2 {
		t.Fatalf("expected employee 2, got %d", got)
	}
}

func TestFallbackAssigneeBreaksFullTieByID(t *testing.T) {
	got := FallbackAssignee([]db.CandidateEmployee{
		{ID: 9, ActiveTickets: 1, AverageRating: 4},
		{ID: 4, ActiveTickets: 1, AverageRating: 4},
		{ID: 7, ActiveTickets: 1, AverageRating: 4},
	})
	if got != 4 {
		t.Fatalf("expected employee 4, got %d", got)
	}
}

func TestFallbackAssigneeDoesNotReorderInput(t *testing.T) {
	in := []db.CandidateEmployee{
		{ID: 5, ActiveTickets: 9},
		{ID: 6, ActiveTickets: 0},
	}
	FallbackAssignee(in)
	if in[0].ID != 5 || in[1].ID != 6 {
		t.Fatalf("input slice was mutated: %v", in)
	}
}
