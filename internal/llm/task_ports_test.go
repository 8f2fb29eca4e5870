package llm

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/riggerhq/rigger/internal/domain"
)

// fakeChatModel returns a fixed response regardless of input, or an error
// if set.
type fakeChatModel struct {
	response string
	err      error
}

func (f *fakeChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.response}, nil
}

func (f *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, nil
}

func newAdapter(response string) *TaskPortAdapter {
	return NewTaskPortAdapter(&CloseableChatModel{BaseChatModel: &fakeChatModel{response: response}})
}

func TestTaskPortAdapter_GenerateEnhancement_ReturnsTrimmedFreeText(t *testing.T) {
	a := newAdapter("  Watch out for the rate limiter on the ingest endpoint.  ")

	got, err := a.GenerateEnhancement(context.Background(), &domain.Task{ID: "t1", Title: "Add ingest endpoint"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TaskID != "t1" {
		t.Errorf("TaskID = %q, want t1", got.TaskID)
	}
	if got.Type != "clarify" {
		t.Errorf("Type = %q, want clarify", got.Type)
	}
	if got.Content != "Watch out for the rate limiter on the ingest endpoint." {
		t.Errorf("Content = %q, not trimmed", got.Content)
	}
	if got.ID == "" {
		t.Error("expected a generated ID")
	}
}

func TestTaskPortAdapter_DecomposeTask_ParsesJSONArray(t *testing.T) {
	a := newAdapter(`[{"title": "Design schema", "assignee": "backend"}, {"title": "Write migration"}]`)

	got, err := a.DecomposeTask(context.Background(), &domain.Task{ID: "parent", Title: "Build storage layer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].Title != "Design schema" || got[0].AgentPersona != "backend" {
		t.Errorf("unexpected first subtask: %+v", got[0])
	}
	if got[0].Status != domain.StatusPendingEnhancement {
		t.Errorf("Status = %q, want PendingEnhancement", got[0].Status)
	}
	if got[0].ID == "" || got[1].ID == "" {
		t.Error("expected generated IDs for subtasks")
	}
}

func TestTaskPortAdapter_DecomposeTask_PropagatesGenerateError(t *testing.T) {
	a := NewTaskPortAdapter(&CloseableChatModel{BaseChatModel: &fakeChatModel{err: context.DeadlineExceeded}})

	if _, err := a.DecomposeTask(context.Background(), &domain.Task{ID: "t1", Title: "x"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestTaskPortAdapter_GenerateComprehensionTest_MultipleChoice(t *testing.T) {
	a := newAdapter(`{"question": "Which store holds vectors?", "options": ["sqlite-vec", "redis", "none"], "correct_answer": "sqlite-vec"}`)

	got, err := a.GenerateComprehensionTest(context.Background(), &domain.Task{ID: "t1"}, domain.TestTypeMultipleChoice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != domain.TestTypeMultipleChoice {
		t.Errorf("Type = %q, want multiple_choice", got.Type)
	}
	if len(got.Options) != 3 {
		t.Errorf("len(Options) = %d, want 3", len(got.Options))
	}
	if got.CorrectAnswer != "sqlite-vec" {
		t.Errorf("CorrectAnswer = %q, want sqlite-vec", got.CorrectAnswer)
	}
}

func TestTaskPortAdapter_GenerateComprehensionTest_ShortAnswer(t *testing.T) {
	a := newAdapter(`{"question": "What table stores artifacts?", "correct_answer": "artifacts"}`)

	got, err := a.GenerateComprehensionTest(context.Background(), &domain.Task{ID: "t1"}, domain.TestTypeShortAnswer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Options) != 0 {
		t.Errorf("expected no options for short answer, got %v", got.Options)
	}
	if got.Question == "" {
		t.Error("expected a question")
	}
}

func TestTaskPortAdapter_ParsePRDToTasks_LinksSourcePRDID(t *testing.T) {
	a := newAdapter(`[{"title": "Set up project scaffold"}, {"title": "Wire CI"}]`)

	prd := &domain.PRD{ID: "prd-1", Title: "Rigger MVP", Objectives: []string{"ship v1"}}
	got, err := a.ParsePRDToTasks(context.Background(), prd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	for _, task := range got {
		if task.SourcePRDID != "prd-1" {
			t.Errorf("SourcePRDID = %q, want prd-1", task.SourcePRDID)
		}
		if task.Status != domain.StatusPendingEnhancement {
			t.Errorf("Status = %q, want PendingEnhancement", task.Status)
		}
	}
}

func TestTaskPortAdapter_ParsePRDToTasks_NoTasksErrors(t *testing.T) {
	a := newAdapter("not json at all")

	if _, err := a.ParsePRDToTasks(context.Background(), &domain.PRD{ID: "prd-1"}); err == nil {
		t.Fatal("expected error for unparseable response")
	}
}
