// Package config owns the on-disk configuration schema, its versioned
// migration from legacy shapes, and validation, per spec.md §6.
package config

import (
	"fmt"
	"strings"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/llm"
)

// CurrentVersion is the schema version new config files are written as.
const CurrentVersion = "3.0"

// DatabaseConfig describes the embedded store's connection settings.
type DatabaseConfig struct {
	URL        string `json:"url" yaml:"url"`
	AutoVacuum bool   `json:"auto_vacuum" yaml:"auto_vacuum"`
	PoolSize   int    `json:"pool_size" yaml:"pool_size"`
}

// TaskSlot assigns a provider+model to one of the six fixed orchestration
// roles, mirroring spec.md's task_slots.* keys.
type TaskSlot struct {
	Provider    string `json:"provider" yaml:"provider"`
	Model       string `json:"model" yaml:"model"`
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	Description string `json:"description" yaml:"description"`
	Streaming   *bool  `json:"streaming,omitempty" yaml:"streaming,omitempty"`
}

// TaskSlotConfig is the fixed set of orchestration-role slots.
type TaskSlotConfig struct {
	Main       TaskSlot `json:"main" yaml:"main"`
	Research   TaskSlot `json:"research" yaml:"research"`
	Fallback   TaskSlot `json:"fallback" yaml:"fallback"`
	Embedding  TaskSlot `json:"embedding" yaml:"embedding"`
	Vision     TaskSlot `json:"vision" yaml:"vision"`
	ChatAgent  TaskSlot `json:"chat_agent" yaml:"chat_agent"`
}

// PerformanceConfig toggles telemetry and bounds scheduler concurrency.
type PerformanceConfig struct {
	EnableMetrics      bool `json:"enable_metrics" yaml:"enable_metrics"`
	MaxConcurrentTasks int  `json:"max_concurrent_tasks" yaml:"max_concurrent_tasks"`
}

// TuiConfig is opaque passthrough for the (out-of-scope) terminal UI;
// core never reads it, only round-trips it on save.
type TuiConfig map[string]any

// PolicyConfig configures the persona/tool-risk authorization layer.
// RiskCeiling is one of domain.RiskLevel's String() values ("Safe",
// "Moderate", "High") and is the highest risk a tool call may carry before
// internal/policy's embedded base policy denies it.
type PolicyConfig struct {
	RiskCeiling string `json:"risk_ceiling" yaml:"risk_ceiling"`
}

// RiggerConfig is the full V3 configuration schema.
type RiggerConfig struct {
	Version     string                        `json:"version" yaml:"version"`
	Database    DatabaseConfig                `json:"database" yaml:"database"`
	Providers   map[string]llm.ProviderConfig `json:"providers" yaml:"providers"`
	TaskSlots   TaskSlotConfig                `json:"task_slots" yaml:"task_slots"`
	Performance PerformanceConfig             `json:"performance" yaml:"performance"`
	Policy      PolicyConfig                  `json:"policy" yaml:"policy"`
	TUI         TuiConfig                     `json:"tui,omitempty" yaml:"tui,omitempty"`
}

// DefaultPerformanceConfig mirrors spec.md's stated defaults (metrics on,
// 4 concurrent tasks).
func DefaultPerformanceConfig() PerformanceConfig {
	return PerformanceConfig{EnableMetrics: true, MaxConcurrentTasks: 4}
}

// DefaultDatabaseConfig mirrors the original_source default: a sqlite file
// under .rigger/, auto-vacuum on, pool size 5.
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{URL: "sqlite:.rigger/tasks.db", AutoVacuum: true, PoolSize: 5}
}

// Default builds a fresh V3 config with a single ollama provider and every
// task slot pointed at it, matching the original_source migration default.
func Default() *RiggerConfig {
	return &RiggerConfig{
		Version:     CurrentVersion,
		Database:    DefaultDatabaseConfig(),
		Providers:   llm.DefaultProviderConfigs(),
		TaskSlots:   defaultTaskSlots("ollama", "llama3.2"),
		Performance: DefaultPerformanceConfig(),
		Policy:      PolicyConfig{RiskCeiling: "Moderate"},
	}
}

func defaultTaskSlots(provider, model string) TaskSlotConfig {
	streamTrue := true
	return TaskSlotConfig{
		Main:      TaskSlot{Provider: provider, Model: model, Enabled: true, Description: "Primary task decomposition and generation"},
		Research:  TaskSlot{Provider: provider, Model: model, Enabled: true, Description: "Web research and artifact search"},
		Fallback:  TaskSlot{Provider: provider, Model: model, Enabled: true, Description: "Fallback when main provider fails"},
		Embedding: TaskSlot{Provider: provider, Model: "nomic-embed-text", Enabled: true, Description: "Generate embeddings for semantic search"},
		Vision:    TaskSlot{Provider: provider, Model: "llava:latest", Enabled: false, Description: "Image analysis and description"},
		ChatAgent: TaskSlot{Provider: provider, Model: model, Enabled: true, Description: "Interactive chat agent with tool calling", Streaming: &streamTrue},
	}
}

// Validate enforces spec.md §6's two validation rules: every enabled task
// slot must reference a known provider, and every provider's base URL must
// be absolute HTTP(S). It returns every violation found, not just the
// first, so the core can print a complete remediation list and refuse to
// start.
func (c *RiggerConfig) Validate() []error {
	var errs []error

	for name, slot := range c.slotsByName() {
		if !slot.Enabled {
			continue
		}
		if _, ok := c.Providers[slot.Provider]; !ok {
			errs = append(errs, &domain.ConfigError{
				Field:   fmt.Sprintf("task_slots.%s.provider", name),
				Message: fmt.Sprintf("references unknown provider %q", slot.Provider),
			})
		}
	}

	for name, p := range c.Providers {
		if !strings.HasPrefix(p.BaseURL, "http://") && !strings.HasPrefix(p.BaseURL, "https://") {
			errs = append(errs, &domain.ConfigError{
				Field:   fmt.Sprintf("providers.%s.base_url", name),
				Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", p.BaseURL),
			})
		}
	}

	return errs
}

func (c *RiggerConfig) slotsByName() map[string]TaskSlot {
	return map[string]TaskSlot{
		"main":       c.TaskSlots.Main,
		"research":   c.TaskSlots.Research,
		"fallback":   c.TaskSlots.Fallback,
		"embedding":  c.TaskSlots.Embedding,
		"vision":     c.TaskSlots.Vision,
		"chat_agent": c.TaskSlots.ChatAgent,
	}
}
