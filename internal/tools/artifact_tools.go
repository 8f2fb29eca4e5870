package tools

import (
	"context"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
)

// ListProjectArtifactsParams scopes an artifact listing to one project.
type ListProjectArtifactsParams struct {
	ProjectID string
	Limit     int
}

// ListProjectArtifactsTool lists every artifact ingested for a project,
// grounded on the orchestrator's list_project_artifacts_tool contract.
type ListProjectArtifactsTool struct {
	repo ports.ArtifactRepository
}

func NewListProjectArtifactsTool(repo ports.ArtifactRepository) *ListProjectArtifactsTool {
	return &ListProjectArtifactsTool{repo: repo}
}

func (t *ListProjectArtifactsTool) Call(ctx context.Context, params ListProjectArtifactsParams) ([]*domain.Artifact, error) {
	if params.ProjectID == "" {
		return nil, &ToolError{Kind: ErrInvalidParams, Message: "project_id is required"}
	}

	opts := ports.QueryOptions{}
	if params.Limit > 0 {
		opts.Limit = &params.Limit
	}

	artifacts, err := t.repo.Find(ctx, ports.ArtifactFilter{ByProject: params.ProjectID}, opts)
	if err != nil {
		return nil, &ToolError{Kind: ErrRepository, Message: "list_project_artifacts failed", Cause: err}
	}
	return artifacts, nil
}

// SearchArtifactsParams drives a semantic artifact search: Query is embedded
// and compared against stored artifact vectors.
type SearchArtifactsParams struct {
	Query     string
	ProjectID string // optional; restricts the search to one project
	Limit     int
	Threshold *float64 // optional max L2 distance
}

// SearchArtifactsTool embeds a query and returns the closest artifacts,
// grounded on the orchestrator's search_artifacts_tool contract.
type SearchArtifactsTool struct {
	repo     ports.ArtifactRepository
	embedder ports.EmbeddingPort
}

func NewSearchArtifactsTool(repo ports.ArtifactRepository, embedder ports.EmbeddingPort) *SearchArtifactsTool {
	return &SearchArtifactsTool{repo: repo, embedder: embedder}
}

func (t *SearchArtifactsTool) Call(ctx context.Context, params SearchArtifactsParams) ([]ports.ScoredArtifact, error) {
	if params.Query == "" {
		return nil, &ToolError{Kind: ErrInvalidParams, Message: "query is required"}
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	vector, err := t.embedder.GenerateEmbedding(ctx, params.Query)
	if err != nil {
		return nil, &ToolError{Kind: ErrEmbedding, Message: "failed to embed query", Cause: err}
	}

	var projectID *string
	if params.ProjectID != "" {
		projectID = &params.ProjectID
	}

	results, err := t.repo.FindSimilar(ctx, vector, limit, params.Threshold, projectID)
	if err != nil {
		return nil, &ToolError{Kind: ErrRepository, Message: "search_artifacts failed", Cause: err}
	}
	return results, nil
}
