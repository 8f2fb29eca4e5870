package store

import (
	"context"
	"time"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
)

// PRDRepository is the SQLite-backed ports.PRDRepository. PRDs are
// immutable after creation (Save only ever inserts), per the ports
// contract's doc comment.
type PRDRepository struct {
	db *DB
}

func NewPRDRepository(db *DB) *PRDRepository {
	return &PRDRepository{db: db}
}

func (r *PRDRepository) Save(ctx context.Context, p *domain.PRD) error {
	if p.ID == "" {
		p.ID = newID("prd")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	objectives, err := marshalStrings(p.Objectives)
	if err != nil {
		return wrapErr("prd.save", err)
	}
	techStack, err := marshalStrings(p.TechStack)
	if err != nil {
		return wrapErr("prd.save", err)
	}
	constraints, err := marshalStrings(p.Constraints)
	if err != nil {
		return wrapErr("prd.save", err)
	}

	_, err = r.db.Conn.ExecContext(ctx, `
		INSERT INTO prds (id, project_id, title, objectives, tech_stack, constraints, raw_markdown, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.ProjectID, p.Title, objectives, techStack, constraints, p.RawMarkdown, formatTime(p.CreatedAt))
	return wrapErr("prd.save", err)
}

func (r *PRDRepository) FindOne(ctx context.Context, filter ports.PRDFilter) (*domain.PRD, error) {
	prds, err := r.Find(ctx, filter, ports.QueryOptions{Limit: intPtr(1)})
	if err != nil {
		return nil, err
	}
	if len(prds) == 0 {
		return nil, nil
	}
	return prds[0], nil
}

var prdSortColumns = map[string]string{
	"created_at": "created_at",
	"title":      "title",
}

func (r *PRDRepository) Find(ctx context.Context, filter ports.PRDFilter, opts ports.QueryOptions) ([]*domain.PRD, error) {
	query := "SELECT id, project_id, title, objectives, tech_stack, constraints, raw_markdown, created_at FROM prds"
	var args []any
	switch {
	case filter.ByID != "":
		query += " WHERE id = ?"
		args = append(args, filter.ByID)
	case filter.ByProject != "":
		query += " WHERE project_id = ?"
		args = append(args, filter.ByProject)
	}
	query += " " + buildOrderBy(opts.Sort, prdSortColumns, "ORDER BY created_at ASC")
	query, args = applyLimitOffset(query, args, opts)

	rows, err := r.db.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("prd.find", err)
	}
	defer rows.Close()

	var prds []*domain.PRD
	for rows.Next() {
		var p domain.PRD
		var objectives, techStack, constraints, createdAt string
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Title, &objectives, &techStack, &constraints, &p.RawMarkdown, &createdAt); err != nil {
			return nil, wrapErr("prd.find", err)
		}
		p.Objectives = unmarshalStrings(objectives)
		p.TechStack = unmarshalStrings(techStack)
		p.Constraints = unmarshalStrings(constraints)
		p.CreatedAt = parseTime(createdAt)
		prds = append(prds, &p)
	}
	return prds, wrapErr("prd.find", rows.Err())
}
