package policy

import (
	"context"
	"testing"

	"github.com/riggerhq/rigger/internal/domain"
)

func TestAuthorizer_Authorize_DeniesToolOutsidePersonaSet(t *testing.T) {
	engine, err := NewEngine(EngineConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	authorizer := NewAuthorizer(engine, domain.RiskHigh)

	persona := &domain.Persona{ID: "p1", EnabledToolIDs: []string{"read_file"}}
	tool := &domain.AgentTool{ID: "write_file", Risk: domain.RiskModerate}

	err = authorizer.Authorize(context.Background(), persona, tool)
	if err == nil {
		t.Fatal("expected authorization error")
	}
	var authErr *AuthorizationError
	if !asAuthorizationError(err, &authErr) {
		t.Fatalf("expected *AuthorizationError, got %T: %v", err, err)
	}
}

func TestAuthorizer_Authorize_DeniesToolAboveRiskCeiling(t *testing.T) {
	engine, err := NewEngine(EngineConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	authorizer := NewAuthorizer(engine, domain.RiskSafe)

	persona := &domain.Persona{ID: "p1", EnabledToolIDs: []string{"delete_database"}}
	tool := &domain.AgentTool{ID: "delete_database", Risk: domain.RiskHigh}

	if err := authorizer.Authorize(context.Background(), persona, tool); err == nil {
		t.Fatal("expected authorization error for risk above ceiling")
	}
}

func TestAuthorizer_Authorize_AllowsEnabledToolWithinCeiling(t *testing.T) {
	engine, err := NewEngine(EngineConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	authorizer := NewAuthorizer(engine, domain.RiskModerate)

	persona := &domain.Persona{ID: "p1", EnabledToolIDs: []string{"read_file"}}
	tool := &domain.AgentTool{ID: "read_file", Risk: domain.RiskSafe}

	if err := authorizer.Authorize(context.Background(), persona, tool); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func asAuthorizationError(err error, target **AuthorizationError) bool {
	if ae, ok := err.(*AuthorizationError); ok {
		*target = ae
		return true
	}
	return false
}
