package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
)

// newID mirrors the teacher's UUID-prefixed short-ID idiom ("task-" +
// uuid[:8]), keeping IDs short enough to be comfortably prefix-resolved
// by internal/util.ResolveID.
func newID(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func marshalStrings(ss []string) (string, error) {
	if len(ss) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return "", fmt.Errorf("marshal string slice: %w", err)
	}
	return string(b), nil
}

func unmarshalStrings(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	_ = json.Unmarshal([]byte(s), &out)
	return out
}

func marshalMetadata(m map[string]any) (string, error) {
	if m == nil {
		return "", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	return string(b), nil
}

func unmarshalMetadata(s string) map[string]any {
	if s == "" {
		return nil
	}
	var out map[string]any
	_ = json.Unmarshal([]byte(s), &out)
	return out
}

// buildOrderBy translates QueryOptions.Sort into a SQL ORDER BY clause.
// Unknown field names are dropped rather than rejected, since filters are
// entity-specific and callers only pass fields the entity actually has.
func buildOrderBy(sort []ports.SortKey, allowed map[string]string, fallback string) string {
	var clauses []string
	for _, key := range sort {
		col, ok := allowed[key.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if key.Direction == ports.Descending {
			dir = "DESC"
		}
		clauses = append(clauses, col+" "+dir)
	}
	if len(clauses) == 0 {
		return fallback
	}
	return "ORDER BY " + strings.Join(clauses, ", ")
}

// applyLimitOffset appends LIMIT/OFFSET clauses and their bind args.
func applyLimitOffset(query string, args []any, opts ports.QueryOptions) (string, []any) {
	if opts.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *opts.Limit)
		if opts.Offset != nil {
			query += " OFFSET ?"
			args = append(args, *opts.Offset)
		}
	}
	return query, args
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &domain.PersistenceError{Op: op, Message: err.Error(), Cause: err}
}
