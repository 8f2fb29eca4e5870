//go:build darwin

package llm

import (
	"os/exec"
)

// ProbeMLXBackend looks for an mlx_lm.server-style binary on PATH, grounded
// on original_source's mlx_subprocess_adapter.rs startup probe. Absence is
// a silent skip, never a hard error.
func ProbeMLXBackend() (string, bool) {
	path, err := exec.LookPath("mlx_lm.server")
	if err != nil {
		return "", false
	}
	return path, true
}
