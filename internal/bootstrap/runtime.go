// Package bootstrap wires a loaded RiggerConfig into a running set of
// collaborators: LLM clients per orchestration role, the persistence
// repositories, the RAG ingestion pipeline, the policy authorizer, and the
// orchestration graph runner. cmd/ calls into this package rather than
// constructing components itself, mirroring the teacher's
// internal/bootstrap factory/initializer split.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/riggerhq/rigger/internal/config"
	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/graph"
	"github.com/riggerhq/rigger/internal/graph/nodes"
	"github.com/riggerhq/rigger/internal/llm"
	"github.com/riggerhq/rigger/internal/policy"
	"github.com/riggerhq/rigger/internal/rag"
	"github.com/riggerhq/rigger/internal/store"
)

// Runtime bundles every wired collaborator a CLI command needs. Close
// releases the underlying LLM clients; the caller owns db.Close()
// separately since db outlives a single Runtime in some call paths (e.g.
// `init` opens a DB and never builds a Runtime at all).
type Runtime struct {
	Config       *config.RiggerConfig
	Tasks        *store.TaskRepository
	Projects     *store.ProjectRepository
	PRDs         *store.PRDRepository
	Artifacts    *store.ArtifactRepository
	Personas     *store.PersonaRepository
	Metrics      *store.MetricsRepository
	Embedder     *llm.EmbeddingAdapter
	Pipeline     *rag.Pipeline
	Orchestrator *graph.Orchestrator
	Authorizer   *policy.Authorizer

	mainModel      *llm.CloseableChatModel
	embeddingModel *llm.CloseableEmbedder
}

// NewRuntime resolves the configured task slots into live LLM clients and
// wires the full pipeline: graph nodes backed by the main slot's chat
// model, the RAG pipeline backed by the embedding slot, and a policy
// authorizer loading any project-local Rego overrides alongside the
// embedded base policy.
func NewRuntime(ctx context.Context, projectRoot string, cfg *config.RiggerConfig, db *store.DB) (*Runtime, error) {
	mainModel, err := resolveChatModel(ctx, cfg, cfg.TaskSlots.Main)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: resolve main model: %w", err)
	}

	embeddingModel, err := resolveEmbedder(ctx, cfg, cfg.TaskSlots.Embedding)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: resolve embedding model: %w", err)
	}

	const defaultEmbeddingDimension = 768
	embedder := llm.NewEmbeddingAdapter(embeddingModel, defaultEmbeddingDimension)

	taskRepo := store.NewTaskRepository(db)
	projectRepo := store.NewProjectRepository(db)
	prdRepo := store.NewPRDRepository(db)
	artifactRepo := store.NewArtifactRepository(db)
	personaRepo := store.NewPersonaRepository(db)
	metricsRepo := store.NewMetricsRepository(db)

	portAdapter := llm.NewTaskPortAdapter(mainModel)

	policyEngine, err := policy.NewEngine(policy.EngineConfig{PoliciesDir: policy.GetPoliciesPath(projectRoot)})
	if err != nil {
		return nil, fmt.Errorf("bootstrap: load policies: %w", err)
	}
	authorizer := policy.NewAuthorizer(policyEngine, domain.ParseRiskLevel(cfg.Policy.RiskCeiling))

	runner := graph.NewRunner(buildNodes(portAdapter), int64(cfg.Performance.MaxConcurrentTasks), taskRepo.Save)
	orchestrator := graph.NewOrchestrator(runner, taskRepo, prdRepo, projectRepo, portAdapter)

	return &Runtime{
		Config:         cfg,
		Tasks:          taskRepo,
		Projects:       projectRepo,
		PRDs:           prdRepo,
		Artifacts:      artifactRepo,
		Personas:       personaRepo,
		Metrics:        metricsRepo,
		Embedder:       embedder,
		Pipeline:       rag.NewPipeline(artifactRepo, embedder),
		Orchestrator:   orchestrator,
		Authorizer:     authorizer,
		mainModel:      mainModel,
		embeddingModel: embeddingModel,
	}, nil
}

// Close releases the LLM clients held open by the runtime.
func (r *Runtime) Close() error {
	var firstErr error
	if r.mainModel != nil {
		if err := r.mainModel.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.embeddingModel != nil {
		if err := r.embeddingModel.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// buildNodes assembles the fixed pipeline order: route, enhance, decompose,
// generate a short-answer comprehension test, then check it.
func buildNodes(portAdapter *llm.TaskPortAdapter) []graph.PipelineNode {
	return []graph.PipelineNode{
		nodes.NewSemanticRouterNode(),
		nodes.NewTaskEnhancementNode(portAdapter),
		nodes.NewTaskDecompositionNode(portAdapter),
		nodes.NewComprehensionTestGenerationNode(portAdapter, domain.TestTypeShortAnswer),
		nodes.NewCheckTestResultNode(),
	}
}

func resolveChatModel(ctx context.Context, cfg *config.RiggerConfig, slot config.TaskSlot) (*llm.CloseableChatModel, error) {
	provider, ok := cfg.Providers[slot.Provider]
	if !ok {
		return nil, fmt.Errorf("task slot references unknown provider %q", slot.Provider)
	}
	return llm.NewChatModel(ctx, provider, slot.Model)
}

func resolveEmbedder(ctx context.Context, cfg *config.RiggerConfig, slot config.TaskSlot) (*llm.CloseableEmbedder, error) {
	provider, ok := cfg.Providers[slot.Provider]
	if !ok {
		return nil, fmt.Errorf("task slot references unknown provider %q", slot.Provider)
	}
	return llm.NewEmbedder(ctx, provider, slot.Model)
}
