package llm

import (
	"encoding/json"
	"testing"
)

func TestParseTasksTolerant_Strict(t *testing.T) {
	json := `[{"title": "Write docs", "assignee": "Alice", "due_date": "2025-12-01"}]`
	items, err := ParseTasksTolerant(json)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Title != "Write docs" || items[0].Assignee != "Alice" || items[0].DueDate != "2025-12-01" {
		t.Errorf("unexpected item: %+v", items[0])
	}
}

func TestParseTasksTolerant_Aliases(t *testing.T) {
	// End-to-end scenario 4 from spec.md §8.
	json := `[{"task":"Fix bug","owner":"Bob Smith","deadline":"2025-11-30"}]`
	items, err := ParseTasksTolerant(json)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	got := items[0]
	if got.Title != "Fix bug" {
		t.Errorf("Title = %q, want %q", got.Title, "Fix bug")
	}
	if got.Assignee != "Bob" {
		t.Errorf("Assignee = %q, want %q", got.Assignee, "Bob")
	}
	if got.DueDate != "2025-11-30" {
		t.Errorf("DueDate = %q, want %q", got.DueDate, "2025-11-30")
	}
}

func TestParseTasksTolerant_NoisyText(t *testing.T) {
	response := "Here are the action items:\n[{\"title\": \"Review PR\", \"assignee\": \"Charlie\"}]\nLet me know if you need more!"
	items, err := ParseTasksTolerant(response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Review PR" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestParseTasksTolerant_EmptyArrayFails(t *testing.T) {
	if _, err := ParseTasksTolerant("[]"); err == nil {
		t.Fatal("expected error for empty array")
	}
}

func TestParseTasksTolerant_MissingTitleSkipsEntry(t *testing.T) {
	json := `[{"assignee": "David"}, {"title": "Valid task"}]`
	items, err := ParseTasksTolerant(json)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Valid task" {
		t.Errorf("unexpected items: %+v", items)
	}
}

// TestParseTasksTolerant_RoundTrip exercises the "Tolerant parse" quantified
// invariant from spec.md §8: for any input the strict parser accepts, the
// tolerant parser returns an equal result.
func TestParseTasksTolerant_RoundTrip(t *testing.T) {
	inputs := []string{
		`[{"title":"A","assignee":"Alice","due_date":"2025-01-01"}]`,
		`[{"title":"B"}]`,
		`[{"title":"C","assignee":"Single"}]`,
	}
	for _, in := range inputs {
		got, err := ParseTasksTolerant(in)
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", in, err)
		}
		if len(got) != 1 {
			t.Fatalf("input %q: got %d items, want 1", in, len(got))
		}
		var want []ExtractedTask
		if err := json.Unmarshal([]byte(in), &want); err != nil {
			t.Fatalf("input %q: strict decode: %v", in, err)
		}
		if got[0] != want[0] {
			t.Errorf("input %q: got %+v, want %+v", in, got[0], want[0])
		}
	}
}

func TestParseComprehensionTestTolerant_Aliases(t *testing.T) {
	json := `{"q":"What does X do?","answer":"It does Y","choices":["Y","Z"]}`
	got, err := ParseComprehensionTestTolerant(json)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Question != "What does X do?" {
		t.Errorf("Question = %q", got.Question)
	}
	if got.CorrectAnswer != "It does Y" {
		t.Errorf("CorrectAnswer = %q", got.CorrectAnswer)
	}
	if len(got.Options) != 2 {
		t.Errorf("Options = %v", got.Options)
	}
}

func TestModelRolePriority(t *testing.T) {
	if RoleRouter.Priority() <= RoleDecomposer.Priority() {
		t.Error("Router must outrank Decomposer")
	}
	if RoleDecomposer.Priority() <= RoleEnhancer.Priority() {
		t.Error("Decomposer must outrank Enhancer")
	}
	if RoleEnhancer.Priority() <= RoleTester.Priority() {
		t.Error("Enhancer must outrank Tester")
	}
}

func TestModelSelectionStrategy_Override(t *testing.T) {
	s := &ModelSelectionStrategy{
		Overrides: map[ModelRole]string{RoleRouter: "custom-router-model"},
		Provider:  ProviderConfig{DefaultModel: "llama3.2"},
	}
	if got := s.Resolve(RoleRouter); got != "custom-router-model" {
		t.Errorf("Resolve(Router) = %q, want override", got)
	}
	if got := s.Resolve(RoleEnhancer); got != "llama3.2" {
		t.Errorf("Resolve(Enhancer) = %q, want provider default", got)
	}
}
