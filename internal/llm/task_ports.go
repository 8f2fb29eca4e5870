package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/util"
)

// TaskPortAdapter implements ports.TaskEnhancementPort, TaskDecompositionPort,
// ComprehensionTestPort, and PRDParserPort on top of a single chat model,
// using the tolerant JSON-extraction layer in tolerant.go to absorb the
// usual LLM response noise (fenced code blocks, trailing prose, minor
// JSON-syntax slips).
type TaskPortAdapter struct {
	chatModel *CloseableChatModel
}

// NewTaskPortAdapter wraps a chat model for task enhancement, decomposition,
// comprehension-test generation, and PRD parsing.
func NewTaskPortAdapter(chatModel *CloseableChatModel) *TaskPortAdapter {
	return &TaskPortAdapter{chatModel: chatModel}
}

func (a *TaskPortAdapter) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("llm generate: %w", err)
	}
	return resp.Content, nil
}

// GenerateEnhancement produces a single enrichment fact for a task. The
// response is free text, not JSON: no tolerant-parsing layer applies, unlike
// the structured ports below.
func (a *TaskPortAdapter) GenerateEnhancement(ctx context.Context, task *domain.Task) (*domain.Enhancement, error) {
	prompt := fmt.Sprintf(`You are clarifying a task before it is worked on.

Task: %s
Description: %s

Write one short paragraph of additional context, constraints, or
implementation guidance that would help whoever works this task. Do not
restate the title. Respond with plain text only, no JSON, no markdown
headers.`, task.Title, task.Description)

	content, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate enhancement: %w", err)
	}

	return &domain.Enhancement{
		ID:      util.NewID(),
		TaskID:  task.ID,
		Type:    "clarify",
		Content: strings.TrimSpace(content),
	}, nil
}

// DecomposeTask splits a complex task into 3-7 child tasks.
func (a *TaskPortAdapter) DecomposeTask(ctx context.Context, task *domain.Task) ([]*domain.Task, error) {
	prompt := fmt.Sprintf(`Break the following task into 3 to 7 concrete subtasks.

Task: %s
Description: %s

Respond with a JSON array of objects, each with a "title" field and an
optional "assignee" field naming the role best suited to do the work. Do
not include any other fields or commentary.`, task.Title, task.Description)

	content, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("decompose task: %w", err)
	}

	extracted, err := ParseTasksTolerant(content)
	if err != nil {
		return nil, fmt.Errorf("decompose task: %w", err)
	}

	subtasks := make([]*domain.Task, 0, len(extracted))
	for _, et := range extracted {
		subtasks = append(subtasks, &domain.Task{
			ID:           util.NewID(),
			Title:        et.Title,
			AgentPersona: et.Assignee,
			DueDate:      et.DueDate,
			Reasoning:    et.Reasoning,
			Status:       domain.StatusPendingEnhancement,
		})
	}
	return subtasks, nil
}

// GenerateComprehensionTest produces a knowledge-check question of the
// requested type for a task.
func (a *TaskPortAdapter) GenerateComprehensionTest(ctx context.Context, task *domain.Task, testType domain.ComprehensionTestType) (*domain.ComprehensionTest, error) {
	var shapeInstruction string
	if testType == domain.TestTypeMultipleChoice {
		shapeInstruction = `Respond with a JSON object with "question", "options" (an array of 3-5
short strings), and "correct_answer" (one of the options, verbatim).`
	} else {
		shapeInstruction = `Respond with a JSON object with "question" and "correct_answer" fields
only. Do not include "options".`
	}

	prompt := fmt.Sprintf(`Write one short knowledge-check question (at most %d
characters) that verifies whoever completed this task actually understood
it. It should not be answerable from the title alone.

Task: %s
Description: %s

%s`, domain.MaxQuestionLength, task.Title, task.Description, shapeInstruction)

	content, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate comprehension test: %w", err)
	}

	extracted, err := ParseComprehensionTestTolerant(content)
	if err != nil {
		return nil, fmt.Errorf("generate comprehension test: %w", err)
	}

	return &domain.ComprehensionTest{
		ID:            util.NewID(),
		TaskID:        task.ID,
		Type:          testType,
		Question:      extracted.Question,
		Options:       extracted.Options,
		CorrectAnswer: extracted.CorrectAnswer,
	}, nil
}

// ParsePRDToTasks generates the initial task set from a parsed PRD.
func (a *TaskPortAdapter) ParsePRDToTasks(ctx context.Context, prd *domain.PRD) ([]*domain.Task, error) {
	prompt := fmt.Sprintf(`Read the following product requirements document and
extract an initial list of work items needed to deliver it. Favor
independently schedulable units of work over an exhaustive task breakdown;
later decomposition will split anything too large.

Title: %s
Objectives: %s
Tech stack: %s
Constraints: %s

%s

Respond with a JSON array of objects, each with a "title" field and an
optional "assignee" field naming the role best suited to do the work. Do
not include any other fields or commentary.`,
		prd.Title,
		strings.Join(prd.Objectives, "; "),
		strings.Join(prd.TechStack, ", "),
		strings.Join(prd.Constraints, "; "),
		prd.RawMarkdown,
	)

	content, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("parse PRD to tasks: %w", err)
	}

	extracted, err := ParseTasksTolerant(content)
	if err != nil {
		return nil, fmt.Errorf("parse PRD to tasks: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(extracted))
	for _, et := range extracted {
		tasks = append(tasks, &domain.Task{
			ID:           util.NewID(),
			Title:        et.Title,
			AgentPersona: et.Assignee,
			DueDate:      et.DueDate,
			Reasoning:    et.Reasoning,
			SourcePRDID:  prd.ID,
			Status:       domain.StatusPendingEnhancement,
		})
	}
	return tasks, nil
}
