package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/riggerhq/rigger/internal/config"
	"github.com/riggerhq/rigger/internal/policy"
	"github.com/riggerhq/rigger/internal/store"
)

// Initializer sets up a fresh project directory: the .rigger config
// directory, a default config.json if none exists, an empty policies/
// directory for operator overrides, and the embedded database schema.
type Initializer struct {
	projectRoot string
}

func NewInitializer(projectRoot string) *Initializer {
	return &Initializer{projectRoot: projectRoot}
}

// Run creates the project structure if it does not already exist and
// returns the resulting config. Safe to call on an already-initialized
// project: existing config.json and policies are left untouched.
func (i *Initializer) Run() (*config.RiggerConfig, error) {
	cfg, err := config.Load(i.projectRoot)
	if err != nil {
		return nil, fmt.Errorf("initializer: load config: %w", err)
	}

	configPath := filepath.Join(i.projectRoot, config.RiggerDir, config.ConfigFileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(i.projectRoot, cfg); err != nil {
			return nil, fmt.Errorf("initializer: save config: %w", err)
		}
	}

	policiesDir := policy.GetPoliciesPath(i.projectRoot)
	if err := os.MkdirAll(policiesDir, 0o755); err != nil {
		return nil, fmt.Errorf("initializer: create policies dir: %w", err)
	}

	db, err := store.OpenFromConfigAt(i.projectRoot, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("initializer: open store: %w", err)
	}
	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("initializer: close store: %w", err)
	}

	return cfg, nil
}
