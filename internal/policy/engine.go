package policy

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/spf13/afero"
)

// DefaultPolicyPackage is the Rego package every policy module, embedded or
// operator-supplied, must declare.
const DefaultPolicyPackage = "rigger.policy"

//go:embed defaults.rego
var defaultPolicySource string

// Engine wraps OPA for local, offline policy evaluation: it loads the
// embedded base policy plus any operator .rego overrides and evaluates them
// against a tool-authorization input.
type Engine struct {
	policies      []*PolicyFile
	policyPackage string
}

// EngineConfig configures a new Engine.
type EngineConfig struct {
	// PoliciesDir is the directory of operator-supplied .rego overrides.
	// Empty means "no overrides" — only the embedded base policy runs.
	PoliciesDir string

	// PolicyPackage overrides the queried Rego package; defaults to
	// DefaultPolicyPackage.
	PolicyPackage string

	// Fs is the filesystem operator overrides are loaded from. Defaults to
	// the OS filesystem.
	Fs afero.Fs
}

// NewEngine builds an Engine carrying the embedded base policy plus any
// operator overrides found under cfg.PoliciesDir.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.PolicyPackage == "" {
		cfg.PolicyPackage = DefaultPolicyPackage
	}

	policies := []*PolicyFile{{Path: "defaults.rego", Name: "defaults", Content: defaultPolicySource}}
	if cfg.PoliciesDir != "" {
		loader := NewLoader(cfg.Fs, cfg.PoliciesDir)
		overrides, err := loader.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("policy: load overrides: %w", err)
		}
		policies = append(policies, overrides...)
	}

	return &Engine{policies: policies, policyPackage: cfg.PolicyPackage}, nil
}

// NewEngineWithPolicies builds an Engine from explicitly provided policies,
// bypassing the embedded default — useful for tests exercising a specific
// rule set in isolation.
func NewEngineWithPolicies(policies []*PolicyFile) *Engine {
	return &Engine{policies: policies, policyPackage: DefaultPolicyPackage}
}

// PolicyCount returns the number of loaded policy modules.
func (e *Engine) PolicyCount() int { return len(e.policies) }

// PolicyNames returns the names of all loaded policy modules.
func (e *Engine) PolicyNames() []string {
	names := make([]string, len(e.policies))
	for i, p := range e.policies {
		names[i] = p.Name
	}
	return names
}

// Evaluate runs every loaded policy's deny rules against input and returns
// the aggregate Decision. Any non-empty deny set denies the action; warn
// rules are not evaluated.
func (e *Engine) Evaluate(ctx context.Context, input any) (*Decision, error) {
	if len(e.policies) == 0 {
		return &Decision{
			DecisionID:  uuid.New().String(),
			PolicyPath:  e.policyPackage,
			Result:      ResultAllow,
			Input:       input,
			EvaluatedAt: time.Now().UTC(),
		}, nil
	}

	modules := make([]func(*rego.Rego), len(e.policies))
	for i, p := range e.policies {
		modules[i] = rego.Module(p.Path, p.Content)
	}

	violations, err := e.querySet(ctx, input, "deny", modules)
	if err != nil {
		return nil, fmt.Errorf("policy: query deny rules: %w", err)
	}

	decision := &Decision{
		DecisionID:  uuid.New().String(),
		PolicyPath:  e.policyPackage,
		Input:       input,
		EvaluatedAt: time.Now().UTC(),
	}
	if len(violations) > 0 {
		decision.Result = ResultDeny
		decision.Violations = violations
	} else {
		decision.Result = ResultAllow
	}
	return decision, nil
}

// querySet queries a set-generating rule (deny, warn) and returns its
// string values. An "undefined" evaluation error means the rule simply
// isn't declared in any loaded module, which is fine.
func (e *Engine) querySet(ctx context.Context, input any, rule string, modules []func(*rego.Rego)) ([]string, error) {
	query := fmt.Sprintf("data.%s.%s", e.policyPackage, rule)
	opts := append([]func(*rego.Rego){rego.Query(query), rego.Input(input)}, modules...)

	rs, err := rego.New(opts...).Eval(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "undefined") {
			return nil, nil
		}
		return nil, err
	}

	var results []string
	for _, result := range rs {
		for _, expr := range result.Expressions {
			set, ok := expr.Value.([]any)
			if !ok {
				continue
			}
			for _, item := range set {
				if s, ok := item.(string); ok {
					results = append(results, s)
				}
			}
		}
	}
	return results, nil
}
