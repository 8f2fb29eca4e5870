// Package nodes implements the five orchestration-graph nodes: semantic
// routing, enhancement, decomposition, comprehension-test generation, and
// verification. Each node is a single-responsibility unit reading its
// inputs from and writing its outputs to a shared *graph.Context.
package nodes

import (
	"context"

	"github.com/riggerhq/rigger/internal/graph"
)

// Node is the common shape every orchestration-graph node implements.
type Node interface {
	Execute(ctx context.Context, state *graph.Context) error
}
