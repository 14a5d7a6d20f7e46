package ai

import (
	"context"
	"fmt"

	"github.com/ertis-service/backend/internal/utils"
)

// MockClient is the deterministic stand-in used when no API key is configured.
// Outputs are keyed by a hash of the inputs so repeated calls agree.
type MockClient struct{}

func (MockClient) Summarize(ctx context.Context, description, categoryName string) (string, error) {
	return fmt.Sprintf("Indicators to check for %s: visible damage, leaks or exposed parts, affected area size. Reported: %s", categoryName, description), nil
}

func (MockClient) ClassifyPriority(ctx context.Context, photo []byte, structuredDescription, categoryName string) (string, error) {
	labels := []string{"low", "medium", "high"}
	h := utils.HashStringToUint64(categoryName + structuredDescription)
	return labels[h%uint64(len(labels))], nil
}

func (MockClient) SelectAssignee(ctx context.Context, description, categoryName, priority string, candidates []Candidate) (int64, error) {
	if len(candidates) == 0 {
		return 0, fmt.Errorf("no candidates")
	}
	h := utils.HashStringToUint64(description)
	return candidates[h%uint64(len(candidates))].ID, nil
}

func (MockClient) Recommend(ctx context.Context, description, categoryName, priority string) (string, error) {
	return "Your ticket has been accepted. A technician will review it shortly and you will be notified about every status change.", nil
}
