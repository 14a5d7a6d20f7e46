package ai

import (
	"context"
	"fmt"
	"testing"
)

func TestMockClassifyPriorityIsDeterministic(t *testing.T) {
	client := MockClient{}
	ctx := context.Background()

	first, err := client.ClassifyPriority(ctx, nil, "wet basement floor", "Water supply")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	second, err := client.ClassifyPriority(ctx, nil, "wet basement floor", "Water supply")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if first != second {
		t.Fatalf("same inputs gave %q and %q", first, second)
	}
	switch first {
	case "low", "medium", "high":
	default:
		t.Fatalf("label outside the closed set: %q", first)
	}
}

func TestMockSelectAssigneeReturnsCandidate(t *testing.T) {
	client := MockClient{}
	candidates := []Candidate{{ID: 3}, {ID: 8}, {ID: 21}}

	id, err := client.SelectAssignee(context.Background(), "leaking pipe", "Water supply", "high", candidates)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	found := false
	for _, c := range candidates {
		if c.ID == id {
			found = true
		}
	}
	if !found {
		t.Fatalf("returned id %d is not a candidate", id)
	}
}

func TestMockHandlesArbitraryInputs(t *testing.T) {
	client := MockClient{}
	ctx := context.Background()
	candidates := []Candidate{{ID: 3}, {ID: 8}}

	for i := 0; i < 200; i++ {
		description := fmt.Sprintf("pipe burst case %d", i)

		label, err := client.ClassifyPriority(ctx, nil, description, "Water supply")
		if err != nil {
			t.Fatalf("classify %q: %v", description, err)
		}
		switch label {
		case "low", "medium", "high":
		default:
			t.Fatalf("classify %q gave label outside the closed set: %q", description, label)
		}

		id, err := client.SelectAssignee(ctx, description, "Water supply", label, candidates)
		if err != nil {
			t.Fatalf("select %q: %v", description, err)
		}
		if id != 3 && id != 8 {
			t.Fatalf("select %q gave non-candidate id %d", description, id)
		}
	}
}

func TestMockSelectAssigneeRejectsEmptySet(t *testing.T) {
	client := MockClient{}
	if _, err := client.SelectAssignee(context.Background(), "d", "c", "low", nil); err == nil {
		t.Fatal("expected error for empty candidate set")
	}
}
