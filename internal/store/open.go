package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/riggerhq/rigger/internal/config"
)

// OpenFromConfig connects to the database named by cfg.URL (a
// "sqlite:<path>" URL, the only scheme spec.md's config schema
// supports) and applies cfg's pool size and auto_vacuum setting. A
// relative path is resolved against the process's current directory; use
// OpenFromConfigAt when the caller knows a project root that may differ
// from it (e.g. --project-root).
func OpenFromConfig(cfg config.DatabaseConfig) (*DB, error) {
	path, err := dbPath(cfg)
	if err != nil {
		return nil, err
	}
	return openAtPath(path, cfg)
}

// OpenFromConfigAt is OpenFromConfig, but resolves a relative database path
// against projectRoot instead of the current directory.
func OpenFromConfigAt(projectRoot string, cfg config.DatabaseConfig) (*DB, error) {
	path, err := dbPath(cfg)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectRoot, path)
	}
	return openAtPath(path, cfg)
}

func dbPath(cfg config.DatabaseConfig) (string, error) {
	path, ok := strings.CutPrefix(cfg.URL, "sqlite:")
	if !ok {
		return "", fmt.Errorf("store: unsupported database url %q, expected sqlite: scheme", cfg.URL)
	}
	return path, nil
}

func openAtPath(path string, cfg config.DatabaseConfig) (*DB, error) {
	db, err := Connect(path, cfg.PoolSize)
	if err != nil {
		return nil, err
	}
	if err := db.SetAutoVacuum(cfg.AutoVacuum); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set auto_vacuum: %w", err)
	}
	return db, nil
}
