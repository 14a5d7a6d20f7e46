package service

import (
	"sort"

	"github.com/ertis-service/backend/internal/db"
)

// FallbackAssignee is the deterministic local tie-break used whenever the
// model's pick is invalid or the call fails entirely: fewest active tickets
// first, then highest rating, then lowest id.
func FallbackAssignee(candidates []db.CandidateEmployee) int64 {
	sorted := make([]db.CandidateEmployee, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ActiveTickets != sorted[j].ActiveTickets {
			return sorted[i].ActiveTickets < sorted[j].ActiveTickets
		}
		if sorted[i].AverageRating != sorted[j].AverageRating {
			return sorted[i].AverageRating > sorted[j].AverageRating
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted[0].ID
}
