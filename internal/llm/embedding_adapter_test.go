package llm

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
)

type fakeEmbedder struct {
	vectors [][]float64
	err     error
}

func (f *fakeEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors, nil
}

func TestEmbeddingAdapter_GenerateEmbedding_ConvertsToFloat32(t *testing.T) {
	fake := &fakeEmbedder{vectors: [][]float64{{0.1, 0.2, 0.3}}}
	adapter := NewEmbeddingAdapter(&CloseableEmbedder{Embedder: fake}, 3)

	got, err := adapter.GenerateEmbedding(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0] != float32(0.1) {
		t.Errorf("got[0] = %v, want 0.1", got[0])
	}
}

func TestEmbeddingAdapter_GenerateEmbeddings_BatchLengthMismatchErrors(t *testing.T) {
	fake := &fakeEmbedder{vectors: [][]float64{{0.1}}}
	adapter := NewEmbeddingAdapter(&CloseableEmbedder{Embedder: fake}, 1)

	if _, err := adapter.GenerateEmbeddings(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected error on vector/input count mismatch")
	}
}

func TestEmbeddingAdapter_EmbeddingDimension(t *testing.T) {
	adapter := NewEmbeddingAdapter(&CloseableEmbedder{Embedder: &fakeEmbedder{}}, 1536)
	if adapter.EmbeddingDimension() != 1536 {
		t.Errorf("dimension = %d, want 1536", adapter.EmbeddingDimension())
	}
}
