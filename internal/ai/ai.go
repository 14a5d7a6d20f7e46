package ai

import "context"

// Candidate is one employee offered to the model for assignment.
type Candidate struct {
	ID            int64
	Name          string
	Specialty     string
	Rating        float64
	ActiveTickets int
}

// Client wraps the external inference service. Each capability is independent:
// callers apply their own fallback when a call errors or returns a value
// outside the expected set, so one failing capability never poisons the rest.
type Client interface {
	// Summarize turns a free-text complaint into a short structured list of
	// visual indicators to look for in a photo.
	Summarize(ctx context.Context, description, categoryName string) (string, error)

	// ClassifyPriority looks at the photo and the structured summary and
	// returns one raw label, expected to be low, medium or high.
	ClassifyPriority(ctx context.Context, photo []byte, structuredDescription, categoryName string) (string, error)

	// SelectAssignee returns the id of exactly one candidate. The caller
	// validates membership in the candidate set.
	SelectAssignee(ctx context.Context, description, categoryName, priority string, candidates []Candidate) (int64, error)

	// Recommend produces a short citizen-facing message about expected
	// turnaround for the classified priority.
	Recommend(ctx context.Context, description, categoryName, priority string) (string, error)
}
