package models

import "testing"

func TestParseStatus(t *testing.T) {
	if _, ok := ParseStatus("in_progress"); !ok {
		t.Fatal("in_progress should parse")
	}
	if _, ok := ParseStatus("IN_PROGRESS"); ok {
		t.Fatal("status vocabulary is lowercase only")
	}
	if _, ok := ParseStatus("done"); ok {
		t.Fatal("unknown status should not parse")
	}
}

func TestParsePriority(t *testing.T) {
	for _, v := range []string{"low", "medium", "high"} {
		if _, ok := ParsePriority(v); !ok {
			t.Fatalf("%q should parse", v)
		}
	}
	if _, ok := ParsePriority("critical"); ok {
		t.Fatal("unknown priority should not parse")
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	if !(PriorityHigh.Rank() > PriorityMedium.Rank() && PriorityMedium.Rank() > PriorityLow.Rank()) {
		t.Fatal("priority ranks out of order")
	}
	if Priority("bogus").Rank() != 0 {
		t.Fatal("unknown priority should rank lowest")
	}
}

func TestEmployeeFullName(t *testing.T) {
	e := Employee{FirstName: "Aidos", LastName: "Serik"}
	if e.FullName() != "Aidos Serik" {
		t.Fatalf("unexpected full name: %q", e.FullName())
	}
}
