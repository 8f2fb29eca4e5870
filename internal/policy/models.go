package policy

import (
	"encoding/json"
	"time"
)

// Result is the outcome of a policy evaluation.
type Result string

const (
	ResultAllow Result = "allow"
	ResultDeny  Result = "deny"
)

// Decision is the full record of one policy evaluation, suitable for audit
// logging alongside the telemetry sink.
type Decision struct {
	DecisionID  string
	PolicyPath  string
	Result      Result
	Violations  []string
	Input       any
	EvaluatedAt time.Time
}

// IsAllowed reports whether the decision permits the action.
func (d *Decision) IsAllowed() bool { return d.Result == ResultAllow }

// IsDenied reports whether the decision blocks the action.
func (d *Decision) IsDenied() bool { return d.Result == ResultDeny }

// ViolationsJSON marshals Violations for audit storage.
func (d *Decision) ViolationsJSON() (string, error) {
	b, err := json.Marshal(d.Violations)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToolInput is the Rego input shape describing the tool call under review.
type ToolInput struct {
	ToolID    string `json:"tool_id"`
	Category  string `json:"category"`
	Risk      string `json:"risk"`
	ProjectID string `json:"project_id,omitempty"`
}

// PersonaInput is the Rego input shape describing the persona invoking the
// tool.
type PersonaInput struct {
	ID             string   `json:"id"`
	Role           string   `json:"role"`
	EnabledToolIDs []string `json:"enabled_tool_ids"`
}

// AuthorizationInput is the top-level `input` document given to Rego:
// `input.tool`, `input.persona`, `input.risk_ceiling`.
type AuthorizationInput struct {
	Tool        ToolInput    `json:"tool"`
	Persona     PersonaInput `json:"persona"`
	RiskCeiling string       `json:"risk_ceiling"`
}
