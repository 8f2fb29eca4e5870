package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
)

type stubArtifactRepo struct {
	artifacts []*domain.Artifact
	similar   []ports.ScoredArtifact
	err       error
}

func (r *stubArtifactRepo) Save(context.Context, *domain.Artifact) error      { return nil }
func (r *stubArtifactRepo) SaveAll(context.Context, []*domain.Artifact) error { return nil }

func (r *stubArtifactRepo) FindOne(_ context.Context, _ ports.ArtifactFilter) (*domain.Artifact, error) {
	return nil, r.err
}

func (r *stubArtifactRepo) Find(_ context.Context, filter ports.ArtifactFilter, _ ports.QueryOptions) ([]*domain.Artifact, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Artifact
	for _, a := range r.artifacts {
		if filter.ByProject != "" && a.ProjectID != filter.ByProject {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *stubArtifactRepo) FindSimilar(_ context.Context, _ []float32, _ int, _ *float64, _ *string) ([]ports.ScoredArtifact, error) {
	return r.similar, r.err
}

type stubEmbedder struct {
	vector []float32
	err    error
}

func (e *stubEmbedder) GenerateEmbedding(context.Context, string) ([]float32, error) {
	return e.vector, e.err
}
func (e *stubEmbedder) GenerateEmbeddings(context.Context, []string) ([][]float32, error) {
	return nil, e.err
}
func (e *stubEmbedder) EmbeddingDimension() int { return len(e.vector) }

func TestListProjectArtifactsTool_RequiresProjectID(t *testing.T) {
	tool := NewListProjectArtifactsTool(&stubArtifactRepo{})
	_, err := tool.Call(context.Background(), ListProjectArtifactsParams{})
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Kind != ErrInvalidParams {
		t.Fatalf("expected InvalidParameters, got %v", err)
	}
}

func TestListProjectArtifactsTool_FiltersByProject(t *testing.T) {
	repo := &stubArtifactRepo{artifacts: []*domain.Artifact{
		{ID: "1", ProjectID: "p1"},
		{ID: "2", ProjectID: "p2"},
	}}
	tool := NewListProjectArtifactsTool(repo)

	results, err := tool.Call(context.Background(), ListProjectArtifactsParams{ProjectID: "p1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ID != "1" {
		t.Errorf("got %v, want only artifact 1", results)
	}
}

func TestSearchArtifactsTool_EmbedsQueryAndSearches(t *testing.T) {
	repo := &stubArtifactRepo{similar: []ports.ScoredArtifact{
		{Artifact: &domain.Artifact{ID: "a1"}, Distance: 0.1},
	}}
	embedder := &stubEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	tool := NewSearchArtifactsTool(repo, embedder)

	results, err := tool.Call(context.Background(), SearchArtifactsParams{Query: "auth flow"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Artifact.ID != "a1" {
		t.Errorf("got %v, want a1", results)
	}
}

func TestSearchArtifactsTool_RequiresQuery(t *testing.T) {
	tool := NewSearchArtifactsTool(&stubArtifactRepo{}, &stubEmbedder{})
	_, err := tool.Call(context.Background(), SearchArtifactsParams{})
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Kind != ErrInvalidParams {
		t.Fatalf("expected InvalidParameters, got %v", err)
	}
}

func TestSearchArtifactsTool_PropagatesEmbeddingError(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("provider down")}
	tool := NewSearchArtifactsTool(&stubArtifactRepo{}, embedder)

	_, err := tool.Call(context.Background(), SearchArtifactsParams{Query: "x"})
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Kind != ErrEmbedding {
		t.Fatalf("expected EmbeddingError, got %v", err)
	}
}
