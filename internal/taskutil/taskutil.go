// Package taskutil holds small helpers for resolving and ordering tasks
// that don't belong on the domain.Task type itself.
package taskutil

import (
	"fmt"
	"sort"
	"strings"

	"github.com/riggerhq/rigger/internal/domain"
)

// ShortID returns the first 8 characters of a UUID-like string for display purposes.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// StatusToInt maps task statuses to workflow order, for sorting task lists
// by pipeline progress.
func StatusToInt(s domain.TaskStatus) int {
	switch s {
	case domain.StatusTodo:
		return 1
	case domain.StatusPendingEnhancement:
		return 2
	case domain.StatusPendingDecomposition:
		return 3
	case domain.StatusInProgress:
		return 4
	case domain.StatusPendingComprehensionTest:
		return 5
	case domain.StatusPendingFollowOn:
		return 6
	case domain.StatusDecomposed:
		return 7
	case domain.StatusOrchestrationComplete:
		return 8
	case domain.StatusCompleted:
		return 9
	case domain.StatusArchived:
		return 10
	case domain.StatusErrored:
		return 11
	default:
		return 0
	}
}

// ResolveTaskReference finds a task in a list by exact ID, partial ID
// prefix, or fuzzy title match. Returns an error if nothing matches or if
// multiple titles match with comparable confidence.
func ResolveTaskReference(reference string, tasks []domain.Task) (*domain.Task, error) {
	for i, t := range tasks {
		if t.ID == reference {
			return &tasks[i], nil
		}
	}

	if len(reference) >= 8 {
		for i, t := range tasks {
			if strings.HasPrefix(strings.ToLower(t.ID), strings.ToLower(reference)) {
				return &tasks[i], nil
			}
		}
	}

	type match struct {
		index int
		score float64
	}

	var matches []match
	refLower := strings.ToLower(reference)

	for i, t := range tasks {
		titleLower := strings.ToLower(t.Title)

		if titleLower == refLower {
			return &tasks[i], nil
		}

		if strings.Contains(titleLower, refLower) {
			score := 0.9 - (float64(len(titleLower)-len(refLower))/float64(len(titleLower)))*0.3
			matches = append(matches, match{index: i, score: score})
		}
	}

	if len(matches) > 0 {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].score > matches[j].score
		})

		if matches[0].score > 0.8 && (len(matches) == 1 || matches[0].score > matches[1].score+0.2) {
			return &tasks[matches[0].index], nil
		}

		if len(matches) > 1 {
			var suggestions []string
			for i, m := range matches {
				if i >= 3 {
					break
				}
				suggestions = append(suggestions, fmt.Sprintf("  %s - %s", ShortID(tasks[m.index].ID), tasks[m.index].Title))
			}
			return nil, fmt.Errorf("multiple matches found for '%s'. Did you mean:\n%s\n\nUse a more specific reference or full task ID",
				reference, strings.Join(suggestions, "\n"))
		}
	}

	return nil, fmt.Errorf("no task found matching '%s'", reference)
}
