// Package domain holds the entities and value objects shared across rigger:
// projects, PRDs, tasks, enhancements, comprehension tests, personas, agent
// tools, artifacts, and inference metrics. Nothing in this package talks to
// storage or an LLM provider directly; it only describes shape and invariants.
package domain

import "time"

// TaskStatus is the task's position in the orchestration graph.
type TaskStatus string

const (
	StatusTodo                     TaskStatus = "Todo"
	StatusInProgress                TaskStatus = "InProgress"
	StatusPendingEnhancement        TaskStatus = "PendingEnhancement"
	StatusPendingComprehensionTest  TaskStatus = "PendingComprehensionTest"
	StatusPendingFollowOn           TaskStatus = "PendingFollowOn"
	StatusPendingDecomposition      TaskStatus = "PendingDecomposition"
	StatusDecomposed                TaskStatus = "Decomposed"
	StatusOrchestrationComplete     TaskStatus = "OrchestrationComplete"
	StatusCompleted                 TaskStatus = "Completed"
	StatusArchived                  TaskStatus = "Archived"
	StatusErrored                   TaskStatus = "Errored"
)

// Terminal reports whether the status is terminal for the orchestration graph.
func (s TaskStatus) Terminal() bool {
	switch s {
	case StatusDecomposed, StatusOrchestrationComplete, StatusCompleted, StatusArchived, StatusErrored:
		return true
	default:
		return false
	}
}

// Task is a trackable work item driven through the orchestration graph.
type Task struct {
	ID                 string
	Title              string
	Description        string
	AgentPersona       string // optional; role name, also legacy "assignee"
	DueDate            string // optional, free-form date string
	Status             TaskStatus
	SourcePRDID        string // optional
	SourceTranscriptID string // optional
	ParentTaskID       string // optional
	SubtaskIDs         []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Enhancements       []Enhancement
	ComprehensionTests []ComprehensionTest
	ComplexityScore    *int // 1..10 when computed
	Reasoning          string
	CompletionSummary  string
	ContextFiles       []string
	Dependencies       []string
	SortOrder          *int
}

// HasParent reports whether the task is a subtask of another.
func (t *Task) HasParent() bool {
	return t.ParentTaskID != ""
}

// DependenciesSatisfied reports whether every dependency in resolved is terminal.
func (t *Task) DependenciesSatisfied(resolved map[string]TaskStatus) bool {
	for _, dep := range t.Dependencies {
		status, ok := resolved[dep]
		if !ok || !status.Terminal() {
			return false
		}
	}
	return true
}

// Enhancement is an enrichment fact attached to a task.
type Enhancement struct {
	ID        string
	TaskID    string
	Timestamp time.Time
	Type      string // e.g. "clarify", "decompose-hint"
	Content   string
}

// ComprehensionTestType distinguishes the two supported question shapes.
type ComprehensionTestType string

const (
	TestTypeShortAnswer    ComprehensionTestType = "short_answer"
	TestTypeMultipleChoice ComprehensionTestType = "multiple_choice"
)

// MaxQuestionLength is the normalized upper bound on a comprehension question.
const MaxQuestionLength = 80

// ComprehensionTest is a generated knowledge-check for a task.
type ComprehensionTest struct {
	ID            string
	TaskID        string
	Timestamp     time.Time
	Type          ComprehensionTestType
	Question      string
	Options       []string // required iff Type == TestTypeMultipleChoice
	CorrectAnswer string
}

// Valid reports whether the test satisfies the length and options invariants.
func (c *ComprehensionTest) Valid() bool {
	if len(c.Question) > MaxQuestionLength {
		return false
	}
	if c.CorrectAnswer == "" {
		return false
	}
	if c.Type == TestTypeMultipleChoice && len(c.Options) == 0 {
		return false
	}
	return true
}
