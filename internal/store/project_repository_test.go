package store

import (
	"context"
	"testing"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
)

func TestProjectRepository_SaveAndDerivePRDIDs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	project := &domain.Project{Name: "Rigger", Description: "AI task orchestration"}
	if err := NewProjectRepository(db).Save(ctx, project); err != nil {
		t.Fatalf("save project: %v", err)
	}

	prdRepo := NewPRDRepository(db)
	prd := &domain.PRD{ProjectID: project.ID, Title: "v1", Objectives: []string{"ship"}}
	if err := prdRepo.Save(ctx, prd); err != nil {
		t.Fatalf("save prd: %v", err)
	}

	got, err := NewProjectRepository(db).FindOne(ctx, ports.ProjectFilter{ByID: project.ID})
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if len(got.PRDIDs) != 1 || got.PRDIDs[0] != prd.ID {
		t.Errorf("prd ids = %v, want [%s]", got.PRDIDs, prd.ID)
	}
}

func TestPRDRepository_FindByProject(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	prdRepo := NewPRDRepository(db)

	if err := NewProjectRepository(db).Save(ctx, &domain.Project{ID: "project-1", Name: "Rigger"}); err != nil {
		t.Fatalf("save project: %v", err)
	}

	prd := &domain.PRD{ProjectID: "project-1", Title: "v1", TechStack: []string{"go", "sqlite"}}
	if err := prdRepo.Save(ctx, prd); err != nil {
		t.Fatalf("save: %v", err)
	}

	found, err := prdRepo.Find(ctx, ports.PRDFilter{ByProject: "project-1"}, ports.QueryOptions{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 1 || found[0].Title != "v1" {
		t.Fatalf("unexpected result: %+v", found)
	}
	if len(found[0].TechStack) != 2 {
		t.Errorf("tech stack round-trip failed: %v", found[0].TechStack)
	}
}
