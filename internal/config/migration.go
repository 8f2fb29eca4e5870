package config

import (
	"encoding/json"

	"github.com/riggerhq/rigger/internal/llm"
)

// Version identifies a detected on-disk config shape.
type Version string

const (
	VersionV0      Version = "V0"      // legacy flat {provider, model}
	VersionV1      Version = "V1"      // {model_roles, providers}
	VersionV2      Version = "V2"      // setup-wizard {task_tools}
	VersionV3      Version = "V3"      // current {version: "3.0", ...}
	VersionUnknown Version = "Unknown"
)

// DetectVersion classifies a raw, already-json/yaml-decoded config map by
// the structural heuristics original_source's migration module uses:
// an explicit "3.0" version field wins; otherwise the presence of
// task_tools / model_roles / provider|model keys identifies the legacy
// shape.
func DetectVersion(raw map[string]any) Version {
	if v, ok := raw["version"]; ok {
		if s, ok := v.(string); ok && s == "3.0" {
			return VersionV3
		}
		return VersionUnknown
	}
	if _, ok := raw["task_tools"]; ok {
		return VersionV2
	}
	if _, ok := raw["model_roles"]; ok {
		return VersionV1
	}
	if _, hasProvider := raw["provider"]; hasProvider {
		return VersionV0
	}
	if _, hasModel := raw["model"]; hasModel {
		return VersionV0
	}
	return VersionUnknown
}

// providerDefaults returns (base_url, api_key_env, timeout_seconds) for a
// named provider, matching original_source's per-provider defaults table.
func providerDefaults(name string) (baseURL, apiKeyEnv string, timeoutSeconds int) {
	switch name {
	case "openai":
		return "https://api.openai.com/v1", "OPENAI_API_KEY", 60
	case "anthropic":
		return "https://api.anthropic.com/v1", "ANTHROPIC_API_KEY", 60
	case "groq":
		return "https://api.groq.com/openai/v1", "GROQ_API_KEY", 30
	case "ollama":
		return "http://localhost:11434", "", 120
	default:
		return "http://localhost:11434", "", 120
	}
}

func providerType(name string) llm.Provider {
	switch name {
	case "openai":
		return llm.ProviderOpenAI
	case "anthropic":
		return llm.ProviderAnthropic
	case "ollama":
		return llm.ProviderOllama
	case "mistral":
		return llm.ProviderMistral
	case "groq":
		return llm.ProviderGroq
	default:
		return llm.ProviderCustom
	}
}

func getString(m map[string]any, key, fallback string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

func getMap(m map[string]any, key string) map[string]any {
	if v, ok := m[key]; ok {
		if mm, ok := v.(map[string]any); ok {
			return mm
		}
	}
	return nil
}

// MigrateFromV0 rewrites a legacy flat {provider, model:{main,research,
// fallback}, database_url} shape into the current schema.
func MigrateFromV0(raw map[string]any) *RiggerConfig {
	providerName := getString(raw, "provider", "ollama")
	baseURL, apiKeyEnv, timeout := providerDefaults(providerName)

	models := getMap(raw, "model")
	mainModel := getString(models, "main", "llama3.2")
	researchModel := getString(models, "research", mainModel)
	fallbackModel := getString(models, "fallback", mainModel)

	providers := map[string]llm.ProviderConfig{
		providerName: {
			Name:           providerName,
			Type:           providerType(providerName),
			BaseURL:        baseURL,
			APIKeyEnv:      apiKeyEnv,
			TimeoutSeconds: timeout,
			MaxRetries:     2,
			DefaultModel:   mainModel,
		},
	}

	streamTrue := true
	taskSlots := TaskSlotConfig{
		Main:      TaskSlot{Provider: providerName, Model: mainModel, Enabled: true, Description: "Primary task decomposition and generation"},
		Research:  TaskSlot{Provider: providerName, Model: researchModel, Enabled: true, Description: "Web research and artifact search"},
		Fallback:  TaskSlot{Provider: providerName, Model: fallbackModel, Enabled: true, Description: "Fallback when main provider fails"},
		Embedding: TaskSlot{Provider: providerName, Model: "nomic-embed-text", Enabled: true, Description: "Generate embeddings for semantic search"},
		Vision:    TaskSlot{Provider: providerName, Model: "llava:latest", Enabled: false, Description: "Image analysis and description"},
		ChatAgent: TaskSlot{Provider: providerName, Model: mainModel, Enabled: true, Description: "Interactive chat agent with tool calling", Streaming: &streamTrue},
	}

	return &RiggerConfig{
		Version:     CurrentVersion,
		Database:    DatabaseConfig{URL: getString(raw, "database_url", "sqlite:.rigger/tasks.db"), AutoVacuum: true, PoolSize: 5},
		Providers:   providers,
		TaskSlots:   taskSlots,
		Performance: DefaultPerformanceConfig(),
	}
}

// MigrateFromV2 rewrites a setup-wizard {task_tools: {main, research,
// fallback, embedding, vision}} shape into the current schema.
func MigrateFromV2(raw map[string]any) *RiggerConfig {
	taskTools := getMap(raw, "task_tools")

	providers := map[string]llm.ProviderConfig{}
	slotNames := []string{"main", "research", "fallback", "embedding", "vision"}
	mainModel := "llama3.2"
	mainProvider := "ollama"

	for _, name := range slotNames {
		tool := getMap(taskTools, name)
		if tool == nil {
			continue
		}
		providerName := getString(tool, "provider", "ollama")
		if name == "main" {
			mainModel = getString(tool, "model", mainModel)
			mainProvider = providerName
		}
		if _, exists := providers[providerName]; !exists {
			baseURL, apiKeyEnv, timeout := providerDefaults(providerName)
			providers[providerName] = llm.ProviderConfig{
				Name:           providerName,
				Type:           providerType(providerName),
				BaseURL:        baseURL,
				APIKeyEnv:      apiKeyEnv,
				TimeoutSeconds: timeout,
				MaxRetries:     2,
				DefaultModel:   mainModel,
			}
		}
	}

	slot := func(name, description string) TaskSlot {
		tool := getMap(taskTools, name)
		if tool == nil {
			return TaskSlot{Provider: "ollama", Model: "llama3.2", Enabled: false, Description: description}
		}
		return TaskSlot{
			Provider:    getString(tool, "provider", "ollama"),
			Model:       getString(tool, "model", "llama3.2"),
			Enabled:     true,
			Description: description,
		}
	}

	streamTrue := true
	taskSlots := TaskSlotConfig{
		Main:      slot("main", "Primary task decomposition and generation"),
		Research:  slot("research", "Web research and artifact search"),
		Fallback:  slot("fallback", "Fallback when main provider fails"),
		Embedding: slot("embedding", "Generate embeddings for semantic search"),
		Vision:    slot("vision", "Image analysis and description"),
		ChatAgent: TaskSlot{Provider: mainProvider, Model: mainModel, Enabled: true, Description: "Interactive chat agent with tool calling", Streaming: &streamTrue},
	}

	return &RiggerConfig{
		Version:     CurrentVersion,
		Database:    DatabaseConfig{URL: getString(raw, "database_url", "sqlite:.rigger/tasks.db"), AutoVacuum: true, PoolSize: 5},
		Providers:   providers,
		TaskSlots:   taskSlots,
		Performance: DefaultPerformanceConfig(),
	}
}

// MigrateFromV3 decodes an already-current-schema raw map directly into
// RiggerConfig via a JSON round-trip (re-marshal then typed unmarshal),
// rather than discarding it to Default() like the Unknown/V1 fallback
// does. Falls back to Default() if the round-trip fails to decode.
func MigrateFromV3(raw map[string]any) *RiggerConfig {
	data, err := json.Marshal(raw)
	if err != nil {
		return Default()
	}
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return Default()
	}
	cfg.Version = CurrentVersion
	return cfg
}

// Migrate detects raw's version and rewrites it into the current schema.
// V1 and Unknown shapes fall back to Default(), per spec.md's "Unknown
// shapes fall back to defaults" rule. V3 is decoded as-is rather than
// discarded.
func Migrate(raw map[string]any) *RiggerConfig {
	switch DetectVersion(raw) {
	case VersionV0:
		return MigrateFromV0(raw)
	case VersionV2:
		return MigrateFromV2(raw)
	case VersionV3:
		return MigrateFromV3(raw)
	default:
		return Default()
	}
}
