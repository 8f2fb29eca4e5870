package llm

import (
	"context"
	"fmt"
)

// EmbeddingAdapter adapts a CloseableEmbedder (eino's embedding.Embedder) to
// ports.EmbeddingPort. It is deliberately defined against the concrete
// CloseableEmbedder rather than the bare eino interface so callers get the
// same Close() lifecycle as the chat-model factory functions.
type EmbeddingAdapter struct {
	embedder  *CloseableEmbedder
	dimension int
}

// NewEmbeddingAdapter wraps embedder. dimension is the fixed vector length
// the underlying model produces (e.g. 1536 for OpenAI's
// text-embedding-3-small); callers know this from the provider/model they
// selected in NewEmbedder, since eino's Embedder interface does not expose it.
func NewEmbeddingAdapter(embedder *CloseableEmbedder, dimension int) *EmbeddingAdapter {
	return &EmbeddingAdapter{embedder: embedder, dimension: dimension}
}

// GenerateEmbedding embeds a single string.
func (a *EmbeddingAdapter) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vecs, err := a.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("llm: embedder returned %d vectors for 1 input", len(vecs))
	}
	return vecs[0], nil
}

// GenerateEmbeddings embeds a batch of strings in one call, converting the
// float64 vectors eino's embedding.Embedder returns into the float32 vectors
// the rest of this module stores and compares.
func (a *EmbeddingAdapter) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs64, err := a.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("llm: embed strings: %w", err)
	}
	if len(vecs64) != len(texts) {
		return nil, fmt.Errorf("llm: embedder returned %d vectors for %d inputs", len(vecs64), len(texts))
	}

	vecs32 := make([][]float32, len(vecs64))
	for i, v := range vecs64 {
		row := make([]float32, len(v))
		for j, f := range v {
			row[j] = float32(f)
		}
		vecs32[i] = row
	}
	return vecs32, nil
}

// EmbeddingDimension reports the fixed vector length this adapter produces.
func (a *EmbeddingAdapter) EmbeddingDimension() int {
	return a.dimension
}

// Close releases the underlying embedder's resources.
func (a *EmbeddingAdapter) Close() error {
	return a.embedder.Close()
}
