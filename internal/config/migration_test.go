package config

import "testing"

func TestDetectVersion_V0(t *testing.T) {
	raw := map[string]any{
		"provider": "ollama",
		"model":    map[string]any{"main": "llama3.2", "research": "llama3.2"},
	}
	if got := DetectVersion(raw); got != VersionV0 {
		t.Errorf("got %s, want V0", got)
	}
}

func TestDetectVersion_V2(t *testing.T) {
	raw := map[string]any{
		"task_tools": map[string]any{"main": map[string]any{"provider": "ollama", "model": "llama3.2"}},
	}
	if got := DetectVersion(raw); got != VersionV2 {
		t.Errorf("got %s, want V2", got)
	}
}

func TestDetectVersion_V3(t *testing.T) {
	raw := map[string]any{"version": "3.0", "providers": map[string]any{}}
	if got := DetectVersion(raw); got != VersionV3 {
		t.Errorf("got %s, want V3", got)
	}
}

func TestDetectVersion_Unknown(t *testing.T) {
	raw := map[string]any{"version": "2.0"}
	if got := DetectVersion(raw); got != VersionUnknown {
		t.Errorf("got %s, want Unknown", got)
	}
	if got := DetectVersion(map[string]any{}); got != VersionUnknown {
		t.Errorf("empty map: got %s, want Unknown", got)
	}
}

func TestMigrateFromV0(t *testing.T) {
	raw := map[string]any{
		"provider":     "ollama",
		"model":        map[string]any{"main": "llama3.2", "research": "llama3.2", "fallback": "llama3.2"},
		"database_url": "sqlite:.rigger/tasks.db",
	}
	cfg := MigrateFromV0(raw)

	if cfg.Version != CurrentVersion {
		t.Errorf("version = %s, want %s", cfg.Version, CurrentVersion)
	}
	if _, ok := cfg.Providers["ollama"]; !ok {
		t.Error("expected ollama provider")
	}
	if cfg.TaskSlots.Main.Provider != "ollama" || cfg.TaskSlots.Main.Model != "llama3.2" {
		t.Errorf("main slot = %+v", cfg.TaskSlots.Main)
	}
	if cfg.TaskSlots.ChatAgent.Streaming == nil || !*cfg.TaskSlots.ChatAgent.Streaming {
		t.Error("expected chat_agent streaming = true")
	}
}

func TestMigrateFromV2(t *testing.T) {
	raw := map[string]any{
		"task_tools": map[string]any{
			"main":      map[string]any{"provider": "ollama", "model": "llama3.2"},
			"embedding": map[string]any{"provider": "ollama", "model": "nomic-embed-text"},
		},
		"database_url": "sqlite:.rigger/tasks.db",
	}
	cfg := MigrateFromV2(raw)

	if cfg.Version != CurrentVersion {
		t.Errorf("version = %s, want %s", cfg.Version, CurrentVersion)
	}
	if _, ok := cfg.Providers["ollama"]; !ok {
		t.Error("expected ollama provider")
	}
	if cfg.TaskSlots.Embedding.Model != "nomic-embed-text" {
		t.Errorf("embedding model = %s, want nomic-embed-text", cfg.TaskSlots.Embedding.Model)
	}
	if cfg.TaskSlots.ChatAgent.Streaming == nil || !*cfg.TaskSlots.ChatAgent.Streaming {
		t.Error("expected chat_agent streaming = true")
	}
}

func TestMigrateFromV3_RoundTripsAsIs(t *testing.T) {
	raw := map[string]any{
		"version": "3.0",
		"database": map[string]any{"url": "sqlite:/custom/path.db", "auto_vacuum": false, "pool_size": 9},
		"providers": map[string]any{
			"openai": map[string]any{
				"provider_type": "openai", "base_url": "https://api.openai.com/v1",
				"api_key_env": "OPENAI_API_KEY", "timeout_seconds": 60, "max_retries": 3, "default_model": "gpt-4o",
			},
		},
		"task_slots": map[string]any{
			"main": map[string]any{"provider": "openai", "model": "gpt-4o", "enabled": true},
		},
	}

	cfg := Migrate(raw)
	if cfg.Version != CurrentVersion {
		t.Errorf("version = %s, want %s", cfg.Version, CurrentVersion)
	}
	if cfg.Database.URL != "sqlite:/custom/path.db" {
		t.Errorf("database url = %s, want custom path preserved", cfg.Database.URL)
	}
	if cfg.Database.PoolSize != 9 {
		t.Errorf("pool size = %d, want 9", cfg.Database.PoolSize)
	}
	if cfg.TaskSlots.Main.Provider != "openai" || cfg.TaskSlots.Main.Model != "gpt-4o" {
		t.Errorf("main slot = %+v, want openai/gpt-4o", cfg.TaskSlots.Main)
	}
	if _, ok := cfg.Providers["openai"]; !ok {
		t.Error("expected openai provider preserved")
	}
}

func TestMigrate_UnknownFallsBackToDefault(t *testing.T) {
	cfg := Migrate(map[string]any{"garbage": true})
	if cfg.Version != CurrentVersion {
		t.Errorf("version = %s, want default %s", cfg.Version, CurrentVersion)
	}
	if len(cfg.Providers) == 0 {
		t.Error("expected default providers")
	}
}

func TestValidate_UnknownProviderReference(t *testing.T) {
	cfg := Default()
	cfg.TaskSlots.Main.Provider = "nonexistent"

	errs := cfg.Validate()
	if len(errs) == 0 {
		t.Fatal("expected validation error")
	}
}

func TestValidate_DisabledSlotSkipsValidation(t *testing.T) {
	cfg := Default()
	cfg.TaskSlots.Vision.Provider = "nonexistent"
	cfg.TaskSlots.Vision.Enabled = false

	for _, err := range cfg.Validate() {
		t.Errorf("unexpected error for disabled slot: %v", err)
	}
}

func TestValidate_RejectsNonHTTPBaseURL(t *testing.T) {
	cfg := Default()
	p := cfg.Providers["ollama"]
	p.BaseURL = "ftp://example.com"
	cfg.Providers["ollama"] = p

	errs := cfg.Validate()
	if len(errs) == 0 {
		t.Fatal("expected validation error for non-http base_url")
	}
}

func TestValidate_DefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}
