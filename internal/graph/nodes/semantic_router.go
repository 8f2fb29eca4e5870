package nodes

import (
	"context"

	"github.com/riggerhq/rigger/internal/graph"
)

// SemanticRouterNode computes a task's complexity score if absent, and
// routes it to Decompose or Enhance per the triage threshold.
type SemanticRouterNode struct{}

func NewSemanticRouterNode() *SemanticRouterNode { return &SemanticRouterNode{} }

func (n *SemanticRouterNode) Execute(_ context.Context, state *graph.Context) error {
	task := state.Task
	if task.ComplexityScore == nil {
		score := graph.ScoreTask(task)
		task.ComplexityScore = &score
	}
	state.Route = graph.Classify(*task.ComplexityScore)
	return nil
}
