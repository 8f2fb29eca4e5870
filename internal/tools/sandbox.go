// Package tools implements the typed, sandboxed tool-invocation surface
// LLM agents call during orchestration: task search, artifact search, and
// filesystem access.
package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/riggerhq/rigger/internal/domain"
)

// Sandbox confines filesystem tool calls to a configured project root.
// Path validation always canonicalizes; it never trusts string checks
// alone beyond the cheap ".." guard applied first.
type Sandbox struct {
	projectRoot string
}

// NewSandbox builds a Sandbox rooted at projectRoot, which must be an
// absolute path.
func NewSandbox(projectRoot string) *Sandbox {
	return &Sandbox{projectRoot: projectRoot}
}

// ValidatePath resolves relativePath against the project root and verifies
// it is the root or a descendant of it. A path component equal to ".." is
// rejected before any resolution is attempted. If the
// target does not yet exist (write targets), its parent is canonicalized
// and the final component rejoined.
func (s *Sandbox) ValidatePath(relativePath string) (string, error) {
	for _, part := range strings.Split(filepath.ToSlash(relativePath), "/") {
		if part == ".." {
			return "", &domain.SandboxError{Kind: domain.SandboxPathTraversal, Path: relativePath}
		}
	}

	requested := filepath.Join(s.projectRoot, relativePath)

	canonical, err := filepath.EvalSymlinks(requested)
	if err != nil {
		parent := filepath.Dir(requested)
		canonicalParent, perr := filepath.EvalSymlinks(parent)
		if perr != nil {
			return "", &domain.SandboxError{Kind: domain.SandboxInvalidPath, Path: relativePath}
		}
		canonical = filepath.Join(canonicalParent, filepath.Base(requested))
	}

	canonicalRoot, err := filepath.EvalSymlinks(s.projectRoot)
	if err != nil {
		return "", &domain.SandboxError{Kind: domain.SandboxInvalidPath, Path: relativePath}
	}

	if canonical != canonicalRoot && !strings.HasPrefix(canonical, canonicalRoot+string(filepath.Separator)) {
		return "", &domain.SandboxError{Kind: domain.SandboxPathEscape, Path: relativePath}
	}

	return canonical, nil
}

// ReadFile reads a sandboxed file's contents.
func (s *Sandbox) ReadFile(relativePath string) (string, error) {
	path, err := s.ValidatePath(relativePath)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("io error: %w", err)
	}
	return string(content), nil
}

// WriteFile writes content to a sandboxed path, creating missing parent
// directories.
func (s *Sandbox) WriteFile(relativePath, content string) error {
	path, err := s.ValidatePath(relativePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("io error: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("io error: %w", err)
	}
	return nil
}

// ListDirectory lists entry names (not full paths) of a sandboxed directory.
func (s *Sandbox) ListDirectory(relativePath string) ([]string, error) {
	path, err := s.ValidatePath(relativePath)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("io error: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
