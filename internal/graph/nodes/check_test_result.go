package nodes

import (
	"context"
	"fmt"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/graph"
)

// CheckTestResultNode accepts a generated comprehension test if it satisfies
// the length and answer invariants, otherwise reroutes to regeneration up
// to the configured retry budget; on the third failure the task is marked
// Errored.
type CheckTestResultNode struct {
	maxRetries int
}

func NewCheckTestResultNode() *CheckTestResultNode {
	return &CheckTestResultNode{maxRetries: graph.RetryBudget}
}

func (n *CheckTestResultNode) Execute(_ context.Context, state *graph.Context) error {
	test := state.InProgressComprehensionTest
	if test == nil {
		return fmt.Errorf("check test result: no comprehension test in context")
	}

	if len(test.Question) <= domain.MaxQuestionLength && test.CorrectAnswer != "" {
		state.Task.Status = domain.StatusOrchestrationComplete
		return nil
	}

	state.ComprehensionRetries++
	if state.ComprehensionRetries > n.maxRetries {
		state.Task.Status = domain.StatusErrored
		state.Task.Reasoning = "comprehension test failed validation after retry budget exhausted"
		return nil
	}

	// Reroute to regeneration: leave status as PendingComprehensionTest so
	// the runner re-invokes ComprehensionTestGenerationNode.
	state.Task.Status = domain.StatusPendingComprehensionTest
	return nil
}
