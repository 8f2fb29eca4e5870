package graph

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/riggerhq/rigger/internal/domain"
)

// Runner drives many tasks concurrently through a pipeline of nodes,
// bounding concurrency with a weighted semaphore sized to
// performance.max_concurrent_tasks. Nodes run serially within one task's
// pipeline; distinct tasks may run concurrently. RunBatch marks tasks in a
// dependency cycle Errored but does not order the remaining tasks by their
// dependencies: a task may run before or alongside the tasks it depends on.
type Runner struct {
	nodes   []PipelineNode
	sem     *semaphore.Weighted
	persist func(ctx context.Context, task *domain.Task) error
}

// PipelineNode is a node the runner threads through in order for each task.
type PipelineNode interface {
	Execute(ctx context.Context, state *Context) error
}

// NewRunner builds a runner with the given node sequence and concurrency
// cap (performance.max_concurrent_tasks, default 4). persist is called
// after every successful node so a crash between nodes loses at most one
// node's worth of work.
func NewRunner(nodes []PipelineNode, maxConcurrentTasks int64, persist func(ctx context.Context, task *domain.Task) error) *Runner {
	if maxConcurrentTasks <= 0 {
		maxConcurrentTasks = 4
	}
	return &Runner{
		nodes:   nodes,
		sem:     semaphore.NewWeighted(maxConcurrentTasks),
		persist: persist,
	}
}

// RunBatch runs every task's pipeline concurrently (bounded by the
// semaphore), first verifying the batch's dependency graph is acyclic.
// Tasks involved in a cycle are marked Errored and skipped; all others run.
func (r *Runner) RunBatch(ctx context.Context, tasks []*domain.Task) error {
	cyclic, err := DetectCycles(tasks)
	if err != nil {
		return fmt.Errorf("runner: %w", err)
	}

	statusByID := make(map[string]domain.TaskStatus, len(tasks))
	for _, t := range tasks {
		statusByID[t.ID] = t.Status
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		if cyclic[task.ID] {
			task.Status = domain.StatusErrored
			task.Reasoning = "dependency cycle detected"
			if r.persist != nil {
				if perr := r.persist(gctx, task); perr != nil {
					return perr
				}
			}
			continue
		}

		g.Go(func() error {
			if err := r.sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer r.sem.Release(1)
			return r.RunOne(gctx, task)
		})
	}
	return g.Wait()
}

// RunOne drives a single task's pipeline to completion: nodes run strictly
// serially, and the task is persisted after every successful node.
func (r *Runner) RunOne(ctx context.Context, task *domain.Task) error {
	_, err := r.RunOneContext(ctx, task)
	return err
}

// RunOneContext is RunOne, but also returns the pipeline's shared context so
// a caller (the orchestrator) can inspect subtasks a decomposition pass
// produced or re-drive a non-terminal task through another pass.
func (r *Runner) RunOneContext(ctx context.Context, task *domain.Task) (*Context, error) {
	state := NewContext(task)
	for _, node := range r.nodes {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		if err := node.Execute(ctx, state); err != nil {
			return state, fmt.Errorf("runner: node execution failed for task %s: %w", task.ID, err)
		}
		if r.persist != nil {
			if err := r.persist(ctx, state.Task); err != nil {
				return state, fmt.Errorf("runner: persist task %s: %w", task.ID, err)
			}
		}
		if state.Task.Status.Terminal() {
			break
		}
	}
	return state, nil
}

// DetectCycles runs a standard depth-first traversal over each task's
// Dependencies edges and returns the set of task IDs participating in a
// cycle. Tasks referencing a dependency outside the batch are treated as
// satisfied (the dependency is assumed terminal elsewhere).
func DetectCycles(tasks []*domain.Task) (map[string]bool, error) {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(tasks))
	cyclic := make(map[string]bool)

	var visit func(id string, stack []string) bool
	visit = func(id string, stack []string) bool {
		task, ok := byID[id]
		if !ok {
			return false // dependency outside this batch; not our concern
		}
		color[id] = gray
		stack = append(stack, id)

		for _, dep := range task.Dependencies {
			switch color[dep] {
			case gray:
				// Found a back-edge: everything on the stack from dep
				// onward participates in the cycle.
				inCycle := false
				for _, s := range stack {
					if s == dep {
						inCycle = true
					}
					if inCycle {
						cyclic[s] = true
					}
				}
				cyclic[dep] = true
				cyclic[id] = true
			case white:
				if visit(dep, stack) {
					cyclic[id] = true
				}
			}
		}

		color[id] = black
		return cyclic[id]
	}

	for _, t := range tasks {
		if color[t.ID] == white {
			visit(t.ID, nil)
		}
	}
	return cyclic, nil
}
