// Package util provides shared identifier helpers used across rigger.
package util

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// MaxAmbiguousCandidates is the max number of candidates shown in an ambiguous-prefix error.
const MaxAmbiguousCandidates = 5

// Errors returned by ID resolution functions.
var (
	ErrAmbiguousID = errors.New("ambiguous ID prefix")
	ErrNotFound    = errors.New("not found")
)

// NewID returns a fresh random identifier for a domain entity.
func NewID() string {
	return uuid.New().String()
}

// PrefixResolver finds candidate IDs matching a prefix, scoped to one entity kind.
type PrefixResolver interface {
	FindIDsByPrefix(ctx context.Context, prefix string) ([]string, error)
}

// ResolveID resolves an exact ID or a (possibly partial, >=1 char) prefix to a
// single full ID, per the get_task_details lookup rule: exact match first,
// then unique prefix match, else NotFound or Ambiguous.
func ResolveID(ctx context.Context, resolver PrefixResolver, idOrPrefix string) (string, error) {
	if idOrPrefix == "" {
		return "", fmt.Errorf("id: %w", ErrNotFound)
	}

	candidates, err := resolver.FindIDsByPrefix(ctx, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("find ids by prefix: %w", err)
	}

	for _, c := range candidates {
		if c == idOrPrefix {
			return c, nil
		}
	}

	return resolveFromCandidates(idOrPrefix, candidates)
}

func resolveFromCandidates(prefix string, candidates []string) (string, error) {
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("id with prefix %q: %w", prefix, ErrNotFound)
	case 1:
		return candidates[0], nil
	default:
		shown := candidates
		if len(shown) > MaxAmbiguousCandidates {
			shown = shown[:MaxAmbiguousCandidates]
		}
		return "", fmt.Errorf("%w: prefix %q matches %d ids: %v", ErrAmbiguousID, prefix, len(candidates), shown)
	}
}
