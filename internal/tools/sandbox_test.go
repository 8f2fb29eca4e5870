package tools

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/riggerhq/rigger/internal/domain"
)

func newTempSandbox(t *testing.T) (*Sandbox, string) {
	t.Helper()
	root := t.TempDir()
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatalf("resolve temp root: %v", err)
	}
	return NewSandbox(resolved), resolved
}

func TestSandbox_ReadWriteRoundTrip(t *testing.T) {
	sb, _ := newTempSandbox(t)

	if err := sb.WriteFile("notes/todo.md", "buy milk"); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := sb.ReadFile("notes/todo.md")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "buy milk" {
		t.Errorf("content = %q, want %q", got, "buy milk")
	}
}

func TestSandbox_ListDirectory(t *testing.T) {
	sb, root := newTempSandbox(t)
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "b.txt"), []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := sb.ListDirectory(".")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("got %d entries, want 2: %v", len(names), names)
	}
}

// TestSandbox_RejectsLiteralTraversal covers spec.md's scenario 5:
// read_file("../etc/passwd") against a project root must fail with
// PathTraversal before any I/O occurs.
func TestSandbox_RejectsLiteralTraversal(t *testing.T) {
	sb, _ := newTempSandbox(t)

	_, err := sb.ReadFile("../etc/passwd")
	if err == nil {
		t.Fatal("expected error")
	}
	var sbErr *domain.SandboxError
	if !errors.As(err, &sbErr) {
		t.Fatalf("expected *domain.SandboxError, got %T: %v", err, err)
	}
	if sbErr.Kind != domain.SandboxPathTraversal {
		t.Errorf("kind = %s, want PathTraversal", sbErr.Kind)
	}
}

func TestSandbox_RejectsTraversalViaNestedComponent(t *testing.T) {
	sb, _ := newTempSandbox(t)

	_, err := sb.ReadFile("subdir/../../outside.txt")
	if err == nil {
		t.Fatal("expected error")
	}
	var sbErr *domain.SandboxError
	if !errors.As(err, &sbErr) || sbErr.Kind != domain.SandboxPathTraversal {
		t.Fatalf("expected PathTraversal, got %v", err)
	}
}

func TestSandbox_RejectsSymlinkEscape(t *testing.T) {
	sb, _ := newTempSandbox(t)

	// A symlink inside the root points at a directory outside it. The path
	// below has no ".." component, so only the canonical-ancestry check can
	// reject it.
	outsideDir := t.TempDir()
	root := sb
	linkPath := filepath.Join(root.projectRoot, "escape")
	if err := os.Symlink(outsideDir, linkPath); err != nil {
		t.Skipf("symlink not supported: %v", err)
	}

	_, err := root.ReadFile("escape/passwd")
	if err == nil {
		t.Fatal("expected error for escape through symlink")
	}
	var sbErr *domain.SandboxError
	if !errors.As(err, &sbErr) || sbErr.Kind != domain.SandboxPathEscape {
		t.Fatalf("expected PathEscape, got %v", err)
	}
}

func TestReadFileTool_WrapsPathTraversal(t *testing.T) {
	sb, _ := newTempSandbox(t)
	tool := NewReadFileTool(sb)

	_, err := tool.Call(nil, ReadFileParams{Path: "../etc/passwd"})
	if err == nil {
		t.Fatal("expected error")
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected *ToolError, got %T", err)
	}
	if toolErr.Kind != ErrPathTraversal {
		t.Errorf("kind = %s, want PathTraversal", toolErr.Kind)
	}
}

func TestReadFileTool_RequiresPath(t *testing.T) {
	sb, _ := newTempSandbox(t)
	tool := NewReadFileTool(sb)

	_, err := tool.Call(nil, ReadFileParams{Path: ""})
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Kind != ErrInvalidParams {
		t.Fatalf("expected InvalidParameters, got %v", err)
	}
}
