package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/riggerhq/rigger/internal/domain"
)

// AuthorizationError reports a denied tool call, carrying the policy
// engine's violation messages for display or audit logging.
type AuthorizationError struct {
	ToolID     string
	Violations []string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("tool %q denied: %s", e.ToolID, strings.Join(e.Violations, "; "))
}

// Authorizer sits in front of tool dispatch: it checks a persona's
// enabled-tool set and an operator-configured risk ceiling before a tool
// call runs. Grounded on TaskWing's Engine.EvaluateTask/EvaluateFiles
// convenience wrappers, narrowed to the persona/tool-risk input this
// project needs.
type Authorizer struct {
	engine      *Engine
	riskCeiling domain.RiskLevel
}

// NewAuthorizer builds an Authorizer. riskCeiling is the highest
// domain.RiskLevel a tool call may carry before the embedded base policy
// denies it, operator-configurable via config.
func NewAuthorizer(engine *Engine, riskCeiling domain.RiskLevel) *Authorizer {
	return &Authorizer{engine: engine, riskCeiling: riskCeiling}
}

// Authorize evaluates whether persona may invoke tool, returning an
// *AuthorizationError (wrapping the policy engine's deny messages) when the
// call is blocked.
func (a *Authorizer) Authorize(ctx context.Context, persona *domain.Persona, tool *domain.AgentTool) error {
	input := AuthorizationInput{
		Tool: ToolInput{
			ToolID:    tool.ID,
			Category:  string(tool.Category),
			Risk:      strings.ToLower(tool.Risk.String()),
			ProjectID: persona.ProjectID,
		},
		Persona: PersonaInput{
			ID:             persona.ID,
			Role:           persona.Role,
			EnabledToolIDs: persona.EnabledToolIDs,
		},
		RiskCeiling: strings.ToLower(a.riskCeiling.String()),
	}

	decision, err := a.engine.Evaluate(ctx, input)
	if err != nil {
		return fmt.Errorf("policy: evaluate tool %q: %w", tool.ID, err)
	}
	if decision.IsDenied() {
		return &AuthorizationError{ToolID: tool.ID, Violations: decision.Violations}
	}
	return nil
}
