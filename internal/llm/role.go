package llm

// ModelRole is one of the four orchestration roles a model can be bound to.
type ModelRole string

const (
	RoleRouter    ModelRole = "Router"
	RoleDecomposer ModelRole = "Decomposer"
	RoleEnhancer  ModelRole = "Enhancer"
	RoleTester    ModelRole = "Tester"
)

// Priority returns the role's dispatch priority: higher runs first when
// multiple roles contend for a bounded resource.
func (r ModelRole) Priority() int {
	switch r {
	case RoleRouter:
		return 10
	case RoleDecomposer:
		return 8
	case RoleEnhancer:
		return 5
	case RoleTester:
		return 3
	default:
		return 0
	}
}

func (r ModelRole) String() string {
	return string(r)
}

// RecommendedDefaultModel is the model suited to a role absent any explicit
// configuration override (e.g. a fast small-context model for Router, a
// chain-of-thought model for Decomposer).
func (r ModelRole) RecommendedDefaultModel(providerDefault string) string {
	// The role's own recommendation only kicks in when the provider
	// hasn't already named a default; otherwise the configured default
	// model wins.
	if providerDefault != "" {
		return providerDefault
	}
	switch r {
	case RoleRouter:
		return "llama3.2:1b"
	case RoleDecomposer:
		return "llama3.2"
	case RoleEnhancer:
		return "llama3.2"
	case RoleTester:
		return "llama3.2"
	default:
		return "llama3.2"
	}
}

// ModelSelectionStrategy maps roles to configured model names, falling back
// to the role's recommended default. Configuration may override any subset.
type ModelSelectionStrategy struct {
	Overrides map[ModelRole]string
	Provider  ProviderConfig
}

// Resolve returns the model name to use for a role.
func (s *ModelSelectionStrategy) Resolve(role ModelRole) string {
	if s.Overrides != nil {
		if m, ok := s.Overrides[role]; ok && m != "" {
			return m
		}
	}
	return role.RecommendedDefaultModel(s.Provider.DefaultModel)
}
