package graph

import (
	"context"
	"fmt"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
)

// maxDecompositionDepth bounds recursive decomposition so a misbehaving
// decomposition port (or a long chain of genuinely nested work) cannot
// drive the orchestrator into unbounded recursion.
const maxDecompositionDepth = 4

// maxPassesPerTask bounds how many times RunOneContext re-drives one
// task's pipeline before giving up; runTask already errors the task out
// once its comprehension test has been rerouted more than RetryBudget
// times across passes, so this only guards against a pipeline that never
// reaches a terminal status at all.
const maxPassesPerTask = RetryBudget + 3

// Orchestrator ties the Runner to persistence: it ingests a PRD into an
// initial generation of tasks, re-drives each task's pipeline until it
// reaches a terminal status (a task can reroute itself back to
// PendingComprehensionTest, which a single pass through the node list
// does not automatically retry), and recursively runs whatever subtasks a
// decomposition pass produced. This is the production code path; the node
// and runner unit tests only exercise pipeline mechanics in isolation.
type Orchestrator struct {
	runner   *Runner
	tasks    ports.TaskRepository
	prds     ports.PRDRepository
	projects ports.ProjectRepository
	parser   ports.PRDParserPort
}

// NewOrchestrator builds an Orchestrator. parser may be nil if the caller
// never intends to call IngestPRD (e.g. a test driving pre-built tasks).
func NewOrchestrator(runner *Runner, tasks ports.TaskRepository, prds ports.PRDRepository, projects ports.ProjectRepository, parser ports.PRDParserPort) *Orchestrator {
	return &Orchestrator{runner: runner, tasks: tasks, prds: prds, projects: projects, parser: parser}
}

// IngestPRD persists prd, parses it into the initial generation of tasks via
// the PRD parser port, links each to the PRD, and persists them.
func (o *Orchestrator) IngestPRD(ctx context.Context, prd *domain.PRD) ([]*domain.Task, error) {
	if o.parser == nil {
		return nil, fmt.Errorf("orchestrator: no PRD parser configured")
	}
	if err := o.prds.Save(ctx, prd); err != nil {
		return nil, fmt.Errorf("orchestrator: save prd: %w", err)
	}

	tasks, err := o.parser.ParsePRDToTasks(ctx, prd)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse prd to tasks: %w", err)
	}

	for _, t := range tasks {
		t.SourcePRDID = prd.ID
		if err := o.tasks.Save(ctx, t); err != nil {
			return nil, fmt.Errorf("orchestrator: save task: %w", err)
		}
	}
	return tasks, nil
}

// RunTask drives task to a terminal status and recursively runs any
// subtasks a decomposition pass generates, up to maxDecompositionDepth
// levels deep.
func (o *Orchestrator) RunTask(ctx context.Context, task *domain.Task) error {
	return o.runTask(ctx, task, 0)
}

func (o *Orchestrator) runTask(ctx context.Context, task *domain.Task, depth int) error {
	var subtasks []*domain.Task
	reroutes := 0
	for pass := 0; pass < maxPassesPerTask; pass++ {
		state, err := o.runner.RunOneContext(ctx, task)
		if err != nil {
			return err
		}
		if len(state.Subtasks) > 0 {
			subtasks = state.Subtasks
		}
		if task.Status.Terminal() {
			break
		}
		// Every pass starts from a fresh Context, so the comprehension-test
		// reroute count is carried across passes here.
		reroutes += state.ComprehensionRetries
		if reroutes > RetryBudget {
			task.Status = domain.StatusErrored
			task.Reasoning = "comprehension test failed validation after retry budget exhausted"
			if err := o.tasks.Save(ctx, task); err != nil {
				return fmt.Errorf("orchestrator: save task %s: %w", task.ID, err)
			}
			break
		}
	}

	if len(subtasks) == 0 || depth >= maxDecompositionDepth {
		return nil
	}

	for _, st := range subtasks {
		if err := o.tasks.Save(ctx, st); err != nil {
			return fmt.Errorf("orchestrator: save subtask %s: %w", st.ID, err)
		}
		if err := o.runTask(ctx, st, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// RunBatch runs every task through RunTask sequentially. Cross-task
// concurrency is the Runner's job (RunBatch there); this method exists for
// callers that want decomposition recursion without the concurrency layer.
func (o *Orchestrator) RunBatch(ctx context.Context, tasks []*domain.Task) error {
	for _, t := range tasks {
		if err := o.RunTask(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
