package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
	"github.com/riggerhq/rigger/internal/util"
)

// SearchTasksParams filters a task search. ProjectPRD, Status, and Persona
// are optional; an empty TaskFilter with All set is used when none are given.
type SearchTasksParams struct {
	ProjectPRD string
	Status     domain.TaskStatus
	Persona    string
	Limit      int
}

// SearchTasksTool lists tasks matching a filter, grounded on the orchestrator's
// search_tasks_tool contract.
type SearchTasksTool struct {
	repo ports.TaskRepository
}

func NewSearchTasksTool(repo ports.TaskRepository) *SearchTasksTool {
	return &SearchTasksTool{repo: repo}
}

func (t *SearchTasksTool) Call(ctx context.Context, params SearchTasksParams) ([]*domain.Task, error) {
	filter := ports.TaskFilter{All: true}
	if params.ProjectPRD != "" {
		filter = ports.TaskFilter{ByProjectPRD: params.ProjectPRD}
	}
	if params.Status != "" {
		filter.ByStatus = params.Status
	}
	if params.Persona != "" {
		filter.ByPersona = params.Persona
	}

	opts := ports.QueryOptions{}
	if params.Limit > 0 {
		opts.Limit = &params.Limit
	}

	tasks, err := t.repo.Find(ctx, filter, opts)
	if err != nil {
		return nil, &ToolError{Kind: ErrRepository, Message: "search_tasks failed", Cause: err}
	}
	return tasks, nil
}

// GetTaskDetailsParams identifies a task by exact ID or unambiguous prefix.
type GetTaskDetailsParams struct {
	IDOrPrefix string
}

// GetTaskDetailsTool resolves a (possibly partial) task ID and returns the
// full task, grounded on the orchestrator's get_task_details_tool contract.
type GetTaskDetailsTool struct {
	repo ports.TaskRepository
}

func NewGetTaskDetailsTool(repo ports.TaskRepository) *GetTaskDetailsTool {
	return &GetTaskDetailsTool{repo: repo}
}

// taskPrefixResolver adapts a TaskRepository's Find to util.PrefixResolver.
type taskPrefixResolver struct {
	repo ports.TaskRepository
}

func (r *taskPrefixResolver) FindIDsByPrefix(ctx context.Context, prefix string) ([]string, error) {
	all, err := r.repo.Find(ctx, ports.TaskFilter{All: true}, ports.QueryOptions{})
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, task := range all {
		if len(task.ID) >= len(prefix) && task.ID[:len(prefix)] == prefix {
			ids = append(ids, task.ID)
		}
	}
	return ids, nil
}

func (t *GetTaskDetailsTool) Call(ctx context.Context, params GetTaskDetailsParams) (*domain.Task, error) {
	if params.IDOrPrefix == "" {
		return nil, &ToolError{Kind: ErrInvalidParams, Message: "id_or_prefix is required"}
	}

	id, err := util.ResolveID(ctx, &taskPrefixResolver{repo: t.repo}, params.IDOrPrefix)
	if err != nil {
		if errors.Is(err, util.ErrAmbiguousID) {
			return nil, &ToolError{Kind: ErrInvalidParams, Message: err.Error()}
		}
		if errors.Is(err, util.ErrNotFound) {
			return nil, &ToolError{Kind: ErrNotFound, Message: fmt.Sprintf("no task matches %q", params.IDOrPrefix)}
		}
		return nil, &ToolError{Kind: ErrRepository, Message: "id resolution failed", Cause: err}
	}

	task, err := t.repo.FindOne(ctx, ports.TaskFilter{ByID: id})
	if err != nil {
		return nil, &ToolError{Kind: ErrRepository, Message: "get_task_details failed", Cause: err}
	}
	if task == nil {
		return nil, &ToolError{Kind: ErrNotFound, Message: fmt.Sprintf("task %s not found", id)}
	}
	return task, nil
}
