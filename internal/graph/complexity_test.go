package graph

import (
	"strings"
	"testing"

	"github.com/riggerhq/rigger/internal/domain"
)

func TestScoreTask_Minimal(t *testing.T) {
	task := &domain.Task{Title: "Fix typo", AgentPersona: "Alice", DueDate: "2025-12-01"}
	if got := ScoreTask(task); got != 3 {
		t.Errorf("score = %d, want 3", got)
	}
}

// TestScoreTask_Scenario1 is end-to-end scenario 1 from spec.md §8.
func TestScoreTask_Scenario1(t *testing.T) {
	task := &domain.Task{Title: "Fix typo", AgentPersona: "Alice", DueDate: "2025-12-01"}
	if got := ScoreTask(task); got != 3 {
		t.Fatalf("score = %d, want 3", got)
	}
	if Classify(ScoreTask(task)) != RouteEnhance {
		t.Error("expected route Enhance")
	}
}

// TestScoreTask_Scenario2 is end-to-end scenario 2 from spec.md §8.
func TestScoreTask_Scenario2(t *testing.T) {
	task := &domain.Task{
		Title: "Refactor the entire authentication system to support OAuth2",
	}
	got := ScoreTask(task)
	if got != 8 {
		t.Fatalf("score = %d, want 8", got)
	}
	if Classify(got) != RouteDecompose {
		t.Error("expected route Decompose")
	}
}

func TestScoreTask_TitleLengthBoundary(t *testing.T) {
	exactly50 := strings.Repeat("a", 50)
	task := &domain.Task{Title: exactly50, AgentPersona: "x", DueDate: "y"}
	if got := ScoreTask(task); got != 3 {
		t.Errorf("exactly 50 chars: score = %d, want 3 (no bonus)", got)
	}

	exactly51 := strings.Repeat("a", 51)
	task2 := &domain.Task{Title: exactly51, AgentPersona: "x", DueDate: "y"}
	if got := ScoreTask(task2); got != 4 {
		t.Errorf("51 chars: score = %d, want 4", got)
	}
}

func TestScoreTask_MultipleKeywordsNotCumulative(t *testing.T) {
	task := &domain.Task{
		Title:        "Refactor and migrate and redesign system",
		AgentPersona: "Henry",
		DueDate:      "2026-01-01",
	}
	if got := ScoreTask(task); got != 5 {
		t.Errorf("score = %d, want 5 (keyword bonus non-cumulative)", got)
	}
}

func TestScoreTask_MaximalClampsAt10(t *testing.T) {
	task := &domain.Task{
		Title:     "Refactor the entire microservices architecture to support multi-region deployment with automated failover",
		Reasoning: strings.Repeat("x", 250),
	}
	if got := ScoreTask(task); got != 10 {
		t.Errorf("score = %d, want 10 (clamped)", got)
	}
}

// TestScoreTask_Deterministic is the "Complexity determinism" invariant.
func TestScoreTask_Deterministic(t *testing.T) {
	task := &domain.Task{Title: "Implement feature", Reasoning: "short"}
	a := ScoreTask(task)
	b := ScoreTask(task)
	if a != b {
		t.Errorf("non-deterministic score: %d != %d", a, b)
	}
}

// TestScoreTask_Bounds is the "Complexity bounds" invariant: 1 <= score <= 10.
func TestScoreTask_Bounds(t *testing.T) {
	cases := []*domain.Task{
		{Title: ""},
		{Title: "x", AgentPersona: "a", DueDate: "b"},
		{Title: strings.Repeat("refactor ", 20), Reasoning: strings.Repeat("z", 500)},
	}
	for _, tc := range cases {
		score := ScoreTask(tc)
		if score < 1 || score > 10 {
			t.Errorf("score %d out of bounds [1,10] for task %+v", score, tc)
		}
	}
}

// TestClassify_Threshold is the "Triage threshold" invariant.
func TestClassify_Threshold(t *testing.T) {
	if Classify(6) != RouteEnhance {
		t.Error("score 6 should route Enhance")
	}
	if Classify(7) != RouteDecompose {
		t.Error("score 7 should route Decompose")
	}
}
