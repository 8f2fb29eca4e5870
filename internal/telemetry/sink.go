// Package telemetry records InferenceMetric observations (one per LLM
// call) behind the same contract shape regardless of backend, mirroring
// the teacher's Client interface idiom (Track/Close) but scoped to
// per-call inference observations rather than anonymous CLI usage
// events — a distinct concern from the teacher's PostHog client.
package telemetry

import (
	"context"
	"sync"

	"github.com/riggerhq/rigger/internal/domain"
)

// Sink is the contract every telemetry backend implements, sharing
// ports.MetricsRepository's method set so either backend can back a
// repository-typed dependency directly.
type Sink interface {
	RecordMetric(ctx context.Context, m *domain.InferenceMetric) error
	GetAllMetrics(ctx context.Context) ([]*domain.InferenceMetric, error)
	GetMetricsByProvider(ctx context.Context, provider string) ([]*domain.InferenceMetric, error)
	GetMetricsByOperation(ctx context.Context, operation string) ([]*domain.InferenceMetric, error)
	GetMetricsByRole(ctx context.Context, role string) ([]*domain.InferenceMetric, error)
	ClearMetrics(ctx context.Context) error
}

// InMemorySink is a process-local Sink, useful for tests and for runs
// where performance.enable_metrics is on but no SQL mirror is wanted.
type InMemorySink struct {
	mu      sync.RWMutex
	metrics []*domain.InferenceMetric
}

func NewInMemorySink() *InMemorySink {
	return &InMemorySink{}
}

func (s *InMemorySink) RecordMetric(_ context.Context, m *domain.InferenceMetric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, m)
	return nil
}

func (s *InMemorySink) GetAllMetrics(_ context.Context) ([]*domain.InferenceMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.InferenceMetric, len(s.metrics))
	copy(out, s.metrics)
	return out, nil
}

func (s *InMemorySink) GetMetricsByProvider(_ context.Context, provider string) ([]*domain.InferenceMetric, error) {
	return s.filter(func(m *domain.InferenceMetric) bool { return m.Provider == provider }), nil
}

func (s *InMemorySink) GetMetricsByOperation(_ context.Context, operation string) ([]*domain.InferenceMetric, error) {
	return s.filter(func(m *domain.InferenceMetric) bool { return m.OperationType == operation }), nil
}

func (s *InMemorySink) GetMetricsByRole(_ context.Context, role string) ([]*domain.InferenceMetric, error) {
	return s.filter(func(m *domain.InferenceMetric) bool { return m.Role == role }), nil
}

func (s *InMemorySink) ClearMetrics(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = nil
	return nil
}

func (s *InMemorySink) filter(pred func(*domain.InferenceMetric) bool) []*domain.InferenceMetric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.InferenceMetric
	for _, m := range s.metrics {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}
