package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/riggerhq/rigger/internal/config"
)

func TestOpenFromConfig_RejectsNonSqliteScheme(t *testing.T) {
	_, err := OpenFromConfig(config.DatabaseConfig{URL: "postgres://localhost/db"})
	if err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}

func TestOpenFromConfigAt_ResolvesRelativePathAgainstProjectRoot(t *testing.T) {
	dir := t.TempDir()

	db, err := OpenFromConfigAt(dir, config.DatabaseConfig{URL: "sqlite:.rigger/tasks.db", PoolSize: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(dir, ".rigger", "tasks.db")); err != nil {
		t.Errorf("expected db file under project root: %v", err)
	}
}

func TestOpenFromConfigAt_LeavesAbsolutePathUnchanged(t *testing.T) {
	dir := t.TempDir()
	absPath := filepath.Join(dir, "tasks.db")

	db, err := OpenFromConfigAt("/some/unrelated/root", config.DatabaseConfig{URL: "sqlite:" + absPath, PoolSize: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(absPath); err != nil {
		t.Errorf("expected db file at absolute path: %v", err)
	}
}
