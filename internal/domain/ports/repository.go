// Package ports defines the interfaces the orchestration graph, tools, and
// RAG engine depend on: persistence, LLM operations, and external
// collaborators. Concrete implementations live in internal/store,
// internal/llm, and internal/rag.
package ports

import (
	"context"

	"github.com/riggerhq/rigger/internal/domain"
)

// SortDirection is the direction of a single sort key.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// SortKey pairs a field name with a direction. Field names are entity
// specific (e.g. "created_at", "status", "title").
type SortKey struct {
	Field     string
	Direction SortDirection
}

// QueryOptions carries pagination and ordering for a find call. Sort keys
// are applied left-to-right; ordering is stable with respect to fields not
// listed.
type QueryOptions struct {
	Sort   []SortKey
	Limit  *int
	Offset *int
}

// TaskFilter selects a subset of tasks. Exactly one variant field should be
// set; All matches every task.
type TaskFilter struct {
	All          bool
	ByID         string
	ByStatus     domain.TaskStatus
	ByPersona    string
	ByProjectPRD string // matches Task.SourcePRDID
}

// TaskRepository is the write/read contract for Task entities.
type TaskRepository interface {
	Save(ctx context.Context, task *domain.Task) error
	FindOne(ctx context.Context, filter TaskFilter) (*domain.Task, error)
	Find(ctx context.Context, filter TaskFilter, opts QueryOptions) ([]*domain.Task, error)
}

// ProjectFilter selects a subset of projects.
type ProjectFilter struct {
	All  bool
	ByID string
}

// ProjectRepository is the write/read contract for Project entities.
type ProjectRepository interface {
	Save(ctx context.Context, project *domain.Project) error
	FindOne(ctx context.Context, filter ProjectFilter) (*domain.Project, error)
	Find(ctx context.Context, filter ProjectFilter, opts QueryOptions) ([]*domain.Project, error)
}

// PRDFilter selects a subset of PRDs.
type PRDFilter struct {
	All       bool
	ByID      string
	ByProject string
}

// PRDRepository is the write/read contract for PRD entities. PRDs are
// immutable after creation; Save only ever inserts.
type PRDRepository interface {
	Save(ctx context.Context, prd *domain.PRD) error
	FindOne(ctx context.Context, filter PRDFilter) (*domain.PRD, error)
	Find(ctx context.Context, filter PRDFilter, opts QueryOptions) ([]*domain.PRD, error)
}

// PersonaFilter selects a subset of personas.
type PersonaFilter struct {
	All       bool
	ByID      string
	ByProject string
	DefaultOf string // project id whose default persona is wanted
}

// PersonaRepository is the write/read contract for Persona entities.
type PersonaRepository interface {
	Save(ctx context.Context, persona *domain.Persona) error
	FindOne(ctx context.Context, filter PersonaFilter) (*domain.Persona, error)
	Find(ctx context.Context, filter PersonaFilter, opts QueryOptions) ([]*domain.Persona, error)
}

// ArtifactFilter selects a subset of artifacts.
type ArtifactFilter struct {
	All       bool
	ByID      string
	ByProject string
	BySource  string
}

// ArtifactRepository is the write/read contract for Artifact entities plus
// vector similarity search.
type ArtifactRepository interface {
	Save(ctx context.Context, artifact *domain.Artifact) error
	SaveAll(ctx context.Context, artifacts []*domain.Artifact) error
	FindOne(ctx context.Context, filter ArtifactFilter) (*domain.Artifact, error)
	Find(ctx context.Context, filter ArtifactFilter, opts QueryOptions) ([]*domain.Artifact, error)

	// FindSimilar returns artifacts ordered ascending by L2 distance to
	// query. threshold and projectID are optional filters (nil = no
	// filter).
	FindSimilar(ctx context.Context, query []float32, limit int, threshold *float64, projectID *string) ([]ScoredArtifact, error)
}

// ScoredArtifact pairs an Artifact with its distance from a query vector.
type ScoredArtifact struct {
	Artifact *domain.Artifact
	Distance float64
}

// MetricsRepository is the SQL-backed telemetry sink contract (see
// internal/telemetry for the in-memory counterpart sharing this shape).
type MetricsRepository interface {
	RecordMetric(ctx context.Context, m *domain.InferenceMetric) error
	GetAllMetrics(ctx context.Context) ([]*domain.InferenceMetric, error)
	GetMetricsByProvider(ctx context.Context, provider string) ([]*domain.InferenceMetric, error)
	GetMetricsByOperation(ctx context.Context, operation string) ([]*domain.InferenceMetric, error)
	GetMetricsByRole(ctx context.Context, role string) ([]*domain.InferenceMetric, error)
	ClearMetrics(ctx context.Context) error
}
