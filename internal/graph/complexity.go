// Package graph implements the orchestration state machine that drives each
// task through triage, enhancement, decomposition, comprehension-test
// generation, and verification, plus the concurrency-bounded runner that
// drives many tasks at once.
package graph

import (
	"strings"

	"github.com/riggerhq/rigger/internal/domain"
)

// TriageThreshold is the complexity score at or above which a task is
// routed to decomposition rather than enhancement.
const TriageThreshold = 7

// architecturalKeywords trigger the non-cumulative +2 complexity bonus when
// any of them appears in a task's title.
var architecturalKeywords = []string{"refactor", "migrate", "redesign", "rewrite", "architect"}

// ScoreTask computes a task's complexity on the deterministic 1..10 scale
// described in spec.md §4.3. The function is pure: identical inputs always
// yield the same score.
func ScoreTask(t *domain.Task) int {
	score := 3

	if len(t.Title) > 50 {
		score++
	}

	titleLower := strings.ToLower(t.Title)
	for _, kw := range architecturalKeywords {
		if strings.Contains(titleLower, kw) {
			score += 2
			break
		}
	}

	if t.AgentPersona == "" {
		score++
	}
	if t.DueDate == "" {
		score++
	}
	if len(t.Reasoning) > 200 {
		score += 2
	}

	if score > 10 {
		score = 10
	}
	return score
}

// Route is the triage outcome for a task.
type Route string

const (
	RouteDecompose Route = "Decompose"
	RouteEnhance   Route = "Enhance"
)

// Classify applies the triage threshold to a score.
func Classify(score int) Route {
	if score >= TriageThreshold {
		return RouteDecompose
	}
	return RouteEnhance
}
