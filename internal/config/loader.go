package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/riggerhq/rigger/internal/domain"
	"github.com/spf13/viper"
)

// RiggerDir is the per-project state directory name (spec.md §6).
const RiggerDir = ".rigger"

// ConfigFileName is the on-disk config file name within RiggerDir.
const ConfigFileName = "config.json"

// Load reads projectRoot/.rigger/config.json, migrating it to the current
// schema if it is an older shape, validating the result, and loading any
// .env file in projectRoot first so api_key_env values resolve. A missing
// config file is not an error: Default() is returned.
func Load(projectRoot string) (*RiggerConfig, error) {
	envPath := filepath.Join(projectRoot, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, &domain.ConfigError{Field: ".env", Message: err.Error()}
		}
	}

	configPath := filepath.Join(projectRoot, RiggerDir, ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, &domain.ConfigError{Field: "config.json", Message: fmt.Sprintf("read: %v", err)}
	}

	raw := v.AllSettings()
	cfg := Migrate(raw)

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, joinConfigErrors(errs)
	}
	return cfg, nil
}

// Save writes cfg to projectRoot/.rigger/config.json, creating the
// directory if needed.
func Save(projectRoot string, cfg *RiggerConfig) error {
	dir := filepath.Join(projectRoot, RiggerDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.ConfigError{Field: RiggerDir, Message: err.Error()}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return &domain.ConfigError{Field: "config.json", Message: err.Error()}
	}

	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &domain.ConfigError{Field: "config.json", Message: err.Error()}
	}
	return nil
}

// joinConfigErrors folds multiple validation errors into a single error
// whose message lists every violation, so the CLI can print a complete
// remediation list instead of failing on the first.
func joinConfigErrors(errs []error) error {
	msg := "configuration is invalid:"
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return &domain.ConfigError{Field: "config", Message: msg}
}
