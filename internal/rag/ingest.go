package rag

import (
	"context"
	"fmt"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
	"github.com/riggerhq/rigger/internal/util"
)

// Pipeline turns raw text or media into persisted, embedded Artifacts.
// Embedding failures degrade to zero vectors rather than failing ingestion:
// a zero-vector artifact still persists and remains retrievable by
// source/metadata lookups, it just never scores well against FindSimilar.
type Pipeline struct {
	artifacts ports.ArtifactRepository
	embedder  ports.EmbeddingPort
}

// NewPipeline builds a Pipeline.
func NewPipeline(artifacts ports.ArtifactRepository, embedder ports.EmbeddingPort) *Pipeline {
	return &Pipeline{artifacts: artifacts, embedder: embedder}
}

// IngestText implements the text ingestion pipeline (spec.md §4.5 steps 1-6):
// split text into paragraph chunks, batch-embed them, build one Artifact per
// chunk carrying its chunk index, and persist all of them atomically.
func (p *Pipeline) IngestText(ctx context.Context, projectID, sourceID string, sourceType domain.ArtifactSourceType, text string) ([]*domain.Artifact, error) {
	if sourceType == "" {
		sourceType = domain.SourcePRD
	}

	chunks := ChunkText(text)
	if len(chunks) == 0 {
		return nil, nil
	}

	vectors, err := p.embedBatch(ctx, chunks)
	if err != nil {
		return nil, err
	}

	artifacts := make([]*domain.Artifact, len(chunks))
	for i, chunk := range chunks {
		artifacts[i] = &domain.Artifact{
			ID:         util.NewID(),
			ProjectID:  projectID,
			SourceID:   sourceID,
			SourceType: sourceType,
			Content:    chunk,
			Embedding:  vectors[i],
			Metadata:   map[string]any{"chunk_index": i},
		}
	}

	if err := p.artifacts.SaveAll(ctx, artifacts); err != nil {
		return nil, fmt.Errorf("rag: persist artifacts: %w", err)
	}
	return artifacts, nil
}

// MediaInput describes an Image or PDF artifact pending ingestion. Description
// is a vision-model-generated caption of the media; the embedding is computed
// from Description, not from the binary payload.
type MediaInput struct {
	SourceType  domain.ArtifactSourceType // SourceImage or SourcePDF
	SourceURL   string
	MimeType    string
	Payload     []byte
	Description string
	PageNumber  *int // 1-indexed, PDF only
}

// IngestMedia embeds a media artifact's vision-generated description and
// persists the artifact with its binary payload attached.
func (p *Pipeline) IngestMedia(ctx context.Context, projectID, sourceID string, in MediaInput) (*domain.Artifact, error) {
	if !in.SourceType.IsMedia() {
		return nil, fmt.Errorf("rag: IngestMedia requires a media source type, got %s", in.SourceType)
	}

	vectors, err := p.embedBatch(ctx, []string{in.Description})
	if err != nil {
		return nil, err
	}

	artifact := &domain.Artifact{
		ID:            util.NewID(),
		ProjectID:     projectID,
		SourceID:      sourceID,
		SourceType:    in.SourceType,
		Content:       in.Description,
		Embedding:     vectors[0],
		Metadata:      map[string]any{},
		BinaryPayload: in.Payload,
		MimeType:      in.MimeType,
		SourceURL:     in.SourceURL,
		PageNumber:    in.PageNumber,
	}

	if err := p.artifacts.Save(ctx, artifact); err != nil {
		return nil, fmt.Errorf("rag: persist media artifact: %w", err)
	}
	return artifact, nil
}

// embedBatch embeds texts, degrading the entire batch to zero vectors on
// any embedding failure so ingestion never fails outright on a provider
// error. Returned vectors always number len(texts).
func (p *Pipeline) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := p.embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		dim := p.embedder.EmbeddingDimension()
		zero := make([][]float32, len(texts))
		for i := range zero {
			zero[i] = make([]float32, dim)
		}
		return zero, nil
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("rag: embedder returned %d vectors for %d chunks", len(vectors), len(texts))
	}
	return vectors, nil
}
