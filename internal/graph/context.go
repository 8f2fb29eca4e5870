package graph

import "github.com/riggerhq/rigger/internal/domain"

// RetryBudget is the default per-node retry budget (spec.md §4.3).
const RetryBudget = 2

// Context is the shared mutable state threaded between node executions for
// one task's pipeline. Nodes communicate only through this struct; it is a
// concrete Go analogue of the source's shared typed key/value context.
type Context struct {
	Task     *domain.Task
	Subtasks []*domain.Task

	InProgressEnhancement       *domain.Enhancement
	InProgressComprehensionTest *domain.ComprehensionTest

	Route Route

	// ComprehensionRetries counts reroutes of the Check/Generate
	// comprehension-test loop; the third failure marks the task Errored.
	ComprehensionRetries int
}

// NewContext seeds a fresh pipeline context for a task.
func NewContext(task *domain.Task) *Context {
	return &Context{Task: task}
}
