package nodes

import (
	"context"
	"fmt"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
	"github.com/riggerhq/rigger/internal/graph"
)

// TaskEnhancementNode calls the enhancement port and appends the result to
// the task's enhancement history.
type TaskEnhancementNode struct {
	port ports.TaskEnhancementPort
}

func NewTaskEnhancementNode(port ports.TaskEnhancementPort) *TaskEnhancementNode {
	return &TaskEnhancementNode{port: port}
}

func (n *TaskEnhancementNode) Execute(ctx context.Context, state *graph.Context) error {
	if state.Route != graph.RouteEnhance {
		return nil
	}

	enhancement, err := n.port.GenerateEnhancement(ctx, state.Task)
	if err != nil {
		return fmt.Errorf("task enhancement: %w", err)
	}

	state.InProgressEnhancement = enhancement
	state.Task.Enhancements = append(state.Task.Enhancements, *enhancement)
	state.Task.Status = domain.StatusPendingComprehensionTest
	return nil
}
