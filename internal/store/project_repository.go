package store

import (
	"context"
	"fmt"
	"time"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
)

// ProjectRepository is the SQLite-backed ports.ProjectRepository.
// Project.PRDIDs is derived from the prds table rather than stored, since
// PRDs already carry project_id as their owning foreign key.
type ProjectRepository struct {
	db *DB
}

func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Save(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = newID("project")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Conn.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, description = excluded.description
	`, p.ID, p.Name, p.Description, formatTime(p.CreatedAt))
	return wrapErr("project.save", err)
}

func (r *ProjectRepository) FindOne(ctx context.Context, filter ports.ProjectFilter) (*domain.Project, error) {
	projects, err := r.Find(ctx, filter, ports.QueryOptions{Limit: intPtr(1)})
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, nil
	}
	return projects[0], nil
}

var projectSortColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
}

func (r *ProjectRepository) Find(ctx context.Context, filter ports.ProjectFilter, opts ports.QueryOptions) ([]*domain.Project, error) {
	query := "SELECT id, name, description, created_at FROM projects"
	var args []any
	if filter.ByID != "" {
		query += " WHERE id = ?"
		args = append(args, filter.ByID)
	}
	query += " " + buildOrderBy(opts.Sort, projectSortColumns, "ORDER BY created_at ASC")
	query, args = applyLimitOffset(query, args, opts)

	rows, err := r.db.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("project.find", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		var p domain.Project
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &createdAt); err != nil {
			return nil, wrapErr("project.find", err)
		}
		p.CreatedAt = parseTime(createdAt)
		projects = append(projects, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("project.find", err)
	}

	for _, p := range projects {
		prdIDs, err := r.prdIDsForProject(ctx, p.ID)
		if err != nil {
			return nil, wrapErr("project.find", fmt.Errorf("fetch prd ids: %w", err))
		}
		p.PRDIDs = prdIDs
	}

	return projects, nil
}

func (r *ProjectRepository) prdIDsForProject(ctx context.Context, projectID string) ([]string, error) {
	rows, err := r.db.Conn.QueryContext(ctx, `SELECT id FROM prds WHERE project_id = ? ORDER BY created_at ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
