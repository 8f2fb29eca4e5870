package nodes

import (
	"context"
	"fmt"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
	"github.com/riggerhq/rigger/internal/graph"
	"github.com/riggerhq/rigger/internal/util"
)

// TaskDecompositionNode breaks a complex task (typically score >= 7) into
// 3-7 subtasks via the decomposition port, links them to the parent, and
// writes the generated subtask IDs back into the shared context.
type TaskDecompositionNode struct {
	port ports.TaskDecompositionPort
}

func NewTaskDecompositionNode(port ports.TaskDecompositionPort) *TaskDecompositionNode {
	return &TaskDecompositionNode{port: port}
}

func (n *TaskDecompositionNode) Execute(ctx context.Context, state *graph.Context) error {
	if state.Route != graph.RouteDecompose {
		return nil
	}

	subtasks, err := n.port.DecomposeTask(ctx, state.Task)
	if err != nil {
		return fmt.Errorf("task decomposition: %w", err)
	}

	subtaskIDs := make([]string, 0, len(subtasks))
	for _, st := range subtasks {
		if st.ID == "" {
			st.ID = util.NewID()
		}
		st.ParentTaskID = state.Task.ID
		subtaskIDs = append(subtaskIDs, st.ID)
	}

	state.Task.Status = domain.StatusDecomposed
	state.Task.SubtaskIDs = subtaskIDs
	state.Subtasks = subtasks
	return nil
}
