package ports

import (
	"context"

	"github.com/riggerhq/rigger/internal/domain"
)

// TaskEnhancementPort generates an enrichment fact for a task.
type TaskEnhancementPort interface {
	GenerateEnhancement(ctx context.Context, task *domain.Task) (*domain.Enhancement, error)
}

// TaskDecompositionPort splits a task into 3-7 child tasks.
type TaskDecompositionPort interface {
	DecomposeTask(ctx context.Context, task *domain.Task) ([]*domain.Task, error)
}

// ComprehensionTestPort generates a knowledge-check question for a task.
type ComprehensionTestPort interface {
	GenerateComprehensionTest(ctx context.Context, task *domain.Task, testType domain.ComprehensionTestType) (*domain.ComprehensionTest, error)
}

// PRDParserPort turns a parsed PRD into the initial generation of tasks.
type PRDParserPort interface {
	ParsePRDToTasks(ctx context.Context, prd *domain.PRD) ([]*domain.Task, error)
}

// EmbeddingPort produces fixed-length vector embeddings for text.
type EmbeddingPort interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	EmbeddingDimension() int
}

// WebCrawlerPort is an external collaborator contract only; no
// implementation ships with this module (spec.md scopes it out beyond the
// interface).
type WebCrawlerPort interface {
	Crawl(ctx context.Context, url string) (*CrawlResult, error)
}

// CrawlResult is the output of a web-crawl operation.
type CrawlResult struct {
	URL         string
	Title       string
	TextContent string
	FetchedAt   string
}
