package domain

import "time"

// ArtifactSourceType distinguishes where an Artifact's text originated.
type ArtifactSourceType string

const (
	SourcePRD         ArtifactSourceType = "PRD"
	SourceFile        ArtifactSourceType = "File"
	SourceWebResearch ArtifactSourceType = "WebResearch"
	SourceUserInput   ArtifactSourceType = "UserInput"
	SourceImage       ArtifactSourceType = "Image"
	SourcePDF         ArtifactSourceType = "PDF"
)

// IsMedia reports whether the source type carries a binary payload.
func (s ArtifactSourceType) IsMedia() bool {
	return s == SourceImage || s == SourcePDF
}

// Artifact is a RAG knowledge chunk with its embedding.
type Artifact struct {
	ID         string
	ProjectID  string
	SourceID   string // PRD id, file path, URL, ...
	SourceType ArtifactSourceType
	Content    string // description for media variants
	Embedding  []float32
	Metadata   map[string]any // optional
	CreatedAt  time.Time

	// Populated iff SourceType is Image or PDF.
	BinaryPayload []byte
	MimeType      string
	SourceURL     string
	PageNumber    *int
}

// InferenceMetric is one LLM call observation.
type InferenceMetric struct {
	ID              string
	Timestamp       time.Time
	OperationType   string
	Provider        string
	Model           string
	Role            string // optional
	DurationMillis  *int64
	InputTokens     *int
	OutputTokens    *int
	TokensPerSecond *float64
	Success         bool
	ErrorMessage    string // optional
}

// ComputeTokensPerSecond fills TokensPerSecond when both token counts and
// duration are known, returning the derived value for convenience.
func (m *InferenceMetric) ComputeTokensPerSecond() *float64 {
	if m.InputTokens == nil || m.OutputTokens == nil || m.DurationMillis == nil || *m.DurationMillis <= 0 {
		return nil
	}
	totalTokens := float64(*m.InputTokens + *m.OutputTokens)
	seconds := float64(*m.DurationMillis) / 1000.0
	if seconds <= 0 {
		return nil
	}
	tps := totalTokens / seconds
	m.TokensPerSecond = &tps
	return m.TokensPerSecond
}
