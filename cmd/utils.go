package cmd

import "github.com/riggerhq/rigger/internal/domain"

// statusToInt orders TaskStatus values for `list` output: non-terminal
// pending/in-progress states sort before terminal ones.
func statusToInt(s domain.TaskStatus) int {
	switch s {
	case domain.StatusTodo:
		return 1
	case domain.StatusPendingEnhancement:
		return 2
	case domain.StatusPendingDecomposition:
		return 3
	case domain.StatusPendingComprehensionTest:
		return 4
	case domain.StatusPendingFollowOn:
		return 5
	case domain.StatusInProgress:
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
