// Package policy authorizes tool calls against a persona's enabled-tool set
// and an operator-configurable risk ceiling, using embedded OPA/Rego rules
// evaluated locally (no network calls). Grounded on TaskWing's own
// internal/policy package: Loader/Engine/PolicyFile shape carried over
// nearly verbatim, PolicyInput simplified from task/plan/file-modification
// checks to Rigger's persona/tool authorization domain.
package policy

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// DefaultPoliciesDir is the directory (relative to .rigger) holding
// operator-supplied .rego policy overrides.
const DefaultPoliciesDir = "policies"

// PolicyFile is a loaded Rego policy file.
type PolicyFile struct {
	Path    string
	Name    string
	Content string
}

// Loader scans and loads .rego files from a directory via afero.Fs, so
// callers can test with an in-memory filesystem instead of touching disk.
type Loader struct {
	fs      afero.Fs
	baseDir string
}

// NewLoader builds a Loader rooted at baseDir on fs.
func NewLoader(fs afero.Fs, baseDir string) *Loader {
	return &Loader{fs: fs, baseDir: baseDir}
}

// NewOsLoader builds a Loader against the real filesystem.
func NewOsLoader(baseDir string) *Loader {
	return NewLoader(afero.NewOsFs(), baseDir)
}

// LoadAll loads every .rego file under baseDir, recursively. A missing
// directory is not an error: it means no operator overrides are configured.
func (l *Loader) LoadAll() ([]*PolicyFile, error) {
	exists, err := afero.DirExists(l.fs, l.baseDir)
	if err != nil {
		return nil, fmt.Errorf("policy: check policies directory: %w", err)
	}
	if !exists {
		return []*PolicyFile{}, nil
	}

	var policies []*PolicyFile
	err = afero.Walk(l.fs, l.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".rego") {
			return nil
		}
		p, err := l.loadFile(path)
		if err != nil {
			return fmt.Errorf("load policy %s: %w", path, err)
		}
		policies = append(policies, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("policy: walk policies directory: %w", err)
	}
	return policies, nil
}

// LoadFile loads a single .rego file.
func (l *Loader) LoadFile(path string) (*PolicyFile, error) {
	return l.loadFile(path)
}

func (l *Loader) loadFile(path string) (*PolicyFile, error) {
	file, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), ".rego")
	return &PolicyFile{Path: path, Name: name, Content: string(content)}, nil
}

// Exists reports whether the policies directory exists.
func (l *Loader) Exists() (bool, error) {
	return afero.DirExists(l.fs, l.baseDir)
}

// GetPoliciesPath builds the path to the operator policy overrides directory
// given a project root.
func GetPoliciesPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".rigger", DefaultPoliciesDir)
}
