package graph

import (
	"context"
	"testing"
	"time"

	"github.com/riggerhq/rigger/internal/domain"
)

func TestDetectCycles_NoCycle(t *testing.T) {
	a := &domain.Task{ID: "a"}
	b := &domain.Task{ID: "b", Dependencies: []string{"a"}}
	c := &domain.Task{ID: "c", Dependencies: []string{"b"}}

	cyclic, err := DetectCycles([]*domain.Task{a, b, c})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cyclic) != 0 {
		t.Errorf("expected no cycles, got %v", cyclic)
	}
}

func TestDetectCycles_SimpleCycle(t *testing.T) {
	a := &domain.Task{ID: "a", Dependencies: []string{"b"}}
	b := &domain.Task{ID: "b", Dependencies: []string{"a"}}

	cyclic, err := DetectCycles([]*domain.Task{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cyclic["a"] || !cyclic["b"] {
		t.Errorf("expected both a and b in cycle, got %v", cyclic)
	}
}

func TestDetectCycles_DependencyOutsideBatchIgnored(t *testing.T) {
	a := &domain.Task{ID: "a", Dependencies: []string{"not-in-batch"}}
	cyclic, err := DetectCycles([]*domain.Task{a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cyclic) != 0 {
		t.Errorf("expected no cycles for out-of-batch dependency, got %v", cyclic)
	}
}

type recordingPersister struct {
	saved []string
}

func (p *recordingPersister) persist(_ context.Context, task *domain.Task) error {
	p.saved = append(p.saved, task.ID)
	return nil
}

type stubNode struct {
	status domain.TaskStatus
}

func (n *stubNode) Execute(_ context.Context, state *Context) error {
	state.Task.Status = n.status
	return nil
}

func TestRunner_RunOne_PersistsEveryNode(t *testing.T) {
	p := &recordingPersister{}
	runner := NewRunner([]PipelineNode{
		&stubNode{status: domain.StatusInProgress},
		&stubNode{status: domain.StatusCompleted},
	}, 4, p.persist)

	task := &domain.Task{ID: "t1", Title: "x"}
	if err := runner.RunOne(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.saved) != 2 {
		t.Fatalf("expected 2 persisted checkpoints, got %d", len(p.saved))
	}
	if task.Status != domain.StatusCompleted {
		t.Errorf("final status = %s, want Completed", task.Status)
	}
}

func TestRunner_RunBatch_MarksCyclicTasksErrored(t *testing.T) {
	a := &domain.Task{ID: "a", Title: "A", Dependencies: []string{"b"}}
	b := &domain.Task{ID: "b", Title: "B", Dependencies: []string{"a"}}
	c := &domain.Task{ID: "c", Title: "C"}

	p := &recordingPersister{}
	runner := NewRunner([]PipelineNode{
		&stubNode{status: domain.StatusCompleted},
	}, 4, p.persist)

	if err := runner.RunBatch(context.Background(), []*domain.Task{a, b, c}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Status != domain.StatusErrored || b.Status != domain.StatusErrored {
		t.Errorf("expected cyclic tasks Errored, got a=%s b=%s", a.Status, b.Status)
	}
	if c.Status != domain.StatusCompleted {
		t.Errorf("expected c completed, got %s", c.Status)
	}
}

func TestBuildComplexityReport_Buckets(t *testing.T) {
	low := &domain.Task{ID: "1", Title: "short", AgentPersona: "x", DueDate: "y"}
	high := &domain.Task{ID: "2", Title: "Refactor the entire architecture across all regions for failover support now"}

	report := BuildComplexityReport([]*domain.Task{low, high}, time.Now())
	if report.Stats.Total != 2 {
		t.Fatalf("Total = %d, want 2", report.Stats.Total)
	}
	if report.Stats.Low == 0 && report.Stats.Medium == 0 {
		t.Error("expected at least one low/medium bucket entry")
	}
	if report.Stats.High == 0 {
		t.Error("expected at least one high bucket entry")
	}
}
