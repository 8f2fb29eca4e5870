package store

import (
	"context"
	"testing"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
)

func TestPersonaRepository_SaveAndFindDefault(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewPersonaRepository(db)

	if err := NewProjectRepository(db).Save(ctx, &domain.Project{ID: "project-1", Name: "Rigger"}); err != nil {
		t.Fatalf("save project: %v", err)
	}

	persona := &domain.Persona{
		ProjectID:      "project-1",
		Name:           "Backend Engineer",
		Role:           "engineer",
		EnabledToolIDs: []string{"read_file", "write_file"},
		Default:        true,
	}
	if err := repo.Save(ctx, persona); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.FindOne(ctx, ports.PersonaFilter{DefaultOf: "project-1"})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if got == nil {
		t.Fatal("expected default persona")
	}
	if got.Name != "Backend Engineer" || len(got.EnabledToolIDs) != 2 {
		t.Errorf("unexpected persona: %+v", got)
	}
}

func TestMetricsRepository_RecordAndFilter(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMetricsRepository(db)

	metric := &domain.InferenceMetric{
		OperationType: "decompose",
		Provider:      "openai",
		Model:         "gpt-4o",
		Role:          "main",
		Success:       true,
	}
	if err := repo.RecordMetric(ctx, metric); err != nil {
		t.Fatalf("record: %v", err)
	}

	byProvider, err := repo.GetMetricsByProvider(ctx, "openai")
	if err != nil {
		t.Fatalf("get by provider: %v", err)
	}
	if len(byProvider) != 1 {
		t.Fatalf("expected 1 metric, got %d", len(byProvider))
	}

	if err := repo.ClearMetrics(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	all, err := repo.GetAllMetrics(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected metrics cleared, got %d", len(all))
	}
}
