package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
)

type fakeArtifactRepo struct {
	saved []*domain.Artifact
}

func (r *fakeArtifactRepo) Save(_ context.Context, a *domain.Artifact) error {
	r.saved = append(r.saved, a)
	return nil
}
func (r *fakeArtifactRepo) SaveAll(_ context.Context, as []*domain.Artifact) error {
	r.saved = append(r.saved, as...)
	return nil
}
func (r *fakeArtifactRepo) FindOne(context.Context, ports.ArtifactFilter) (*domain.Artifact, error) {
	return nil, nil
}
func (r *fakeArtifactRepo) Find(context.Context, ports.ArtifactFilter, ports.QueryOptions) ([]*domain.Artifact, error) {
	return nil, nil
}
func (r *fakeArtifactRepo) FindSimilar(context.Context, []float32, int, *float64, *string) ([]ports.ScoredArtifact, error) {
	return nil, nil
}

type fakeEmbedder struct {
	dim     int
	err     error
	lastLen int
}

func (e *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *fakeEmbedder) GenerateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	e.lastLen = len(texts)
	if e.err != nil {
		return nil, e.err
	}
	vecs := make([][]float32, len(texts))
	for i := range vecs {
		vecs[i] = make([]float32, e.dim)
		vecs[i][0] = float32(i + 1)
	}
	return vecs, nil
}

func (e *fakeEmbedder) EmbeddingDimension() int { return e.dim }

func TestPipeline_IngestText_ChunksEmbedsAndPersists(t *testing.T) {
	repo := &fakeArtifactRepo{}
	embedder := &fakeEmbedder{dim: 4}
	pipeline := NewPipeline(repo, embedder)

	text := "chunk one\n\nchunk two"
	artifacts, err := pipeline.IngestText(context.Background(), "proj-1", "prd-1", domain.SourcePRD, text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("got %d artifacts, want 2", len(artifacts))
	}
	if artifacts[0].Metadata["chunk_index"] != 0 || artifacts[1].Metadata["chunk_index"] != 1 {
		t.Errorf("chunk_index metadata wrong: %+v / %+v", artifacts[0].Metadata, artifacts[1].Metadata)
	}
	if len(repo.saved) != 2 {
		t.Fatalf("expected 2 persisted artifacts, got %d", len(repo.saved))
	}
}

func TestPipeline_IngestText_DefaultsSourceType(t *testing.T) {
	repo := &fakeArtifactRepo{}
	pipeline := NewPipeline(repo, &fakeEmbedder{dim: 2})

	artifacts, err := pipeline.IngestText(context.Background(), "proj-1", "prd-1", "", "just one chunk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].SourceType != domain.SourcePRD {
		t.Errorf("expected default SourcePRD, got %+v", artifacts)
	}
}

func TestPipeline_IngestText_EmptyTextProducesNoArtifacts(t *testing.T) {
	pipeline := NewPipeline(&fakeArtifactRepo{}, &fakeEmbedder{dim: 2})
	artifacts, err := pipeline.IngestText(context.Background(), "proj-1", "prd-1", domain.SourcePRD, "   \n\n  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(artifacts) != 0 {
		t.Errorf("expected no artifacts for blank text, got %d", len(artifacts))
	}
}

func TestPipeline_IngestText_EmbeddingFailureDegradesToZeroVector(t *testing.T) {
	repo := &fakeArtifactRepo{}
	embedder := &fakeEmbedder{dim: 3, err: errors.New("provider unavailable")}
	pipeline := NewPipeline(repo, embedder)

	artifacts, err := pipeline.IngestText(context.Background(), "proj-1", "prd-1", domain.SourcePRD, "one chunk only")
	if err != nil {
		t.Fatalf("expected ingestion to succeed despite embedding failure, got: %v", err)
	}
	if len(artifacts) != 1 {
		t.Fatalf("got %d artifacts, want 1", len(artifacts))
	}
	for _, v := range artifacts[0].Embedding {
		if v != 0 {
			t.Fatalf("expected zero vector on embedding failure, got %v", artifacts[0].Embedding)
		}
	}
	if len(artifacts[0].Embedding) != 3 {
		t.Errorf("zero vector length = %d, want embedder dimension 3", len(artifacts[0].Embedding))
	}
	if len(repo.saved) != 1 {
		t.Errorf("expected degraded artifact to still persist, got %d saved", len(repo.saved))
	}
}

func TestPipeline_IngestMedia_EmbedsDescriptionNotPayload(t *testing.T) {
	repo := &fakeArtifactRepo{}
	embedder := &fakeEmbedder{dim: 2}
	pipeline := NewPipeline(repo, embedder)

	page := 3
	artifact, err := pipeline.IngestMedia(context.Background(), "proj-1", "doc.pdf", MediaInput{
		SourceType:  domain.SourcePDF,
		SourceURL:   "https://example.com/doc.pdf",
		MimeType:    "application/pdf",
		Payload:     []byte{0xDE, 0xAD},
		Description: "a diagram of the system architecture",
		PageNumber:  &page,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artifact.Content != "a diagram of the system architecture" {
		t.Errorf("Content = %q, want the description", artifact.Content)
	}
	if embedder.lastLen != 1 {
		t.Errorf("expected embedder called with 1 text (the description), got %d", embedder.lastLen)
	}
	if artifact.PageNumber == nil || *artifact.PageNumber != 3 {
		t.Errorf("PageNumber = %v, want 3", artifact.PageNumber)
	}
	if len(repo.saved) != 1 {
		t.Errorf("expected media artifact persisted, got %d", len(repo.saved))
	}
}

func TestPipeline_IngestMedia_RejectsNonMediaSourceType(t *testing.T) {
	pipeline := NewPipeline(&fakeArtifactRepo{}, &fakeEmbedder{dim: 2})
	_, err := pipeline.IngestMedia(context.Background(), "proj-1", "x", MediaInput{SourceType: domain.SourcePRD})
	if err == nil {
		t.Fatal("expected error for non-media source type")
	}
}
