package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
)

// PersonaRepository is the SQLite-backed ports.PersonaRepository.
type PersonaRepository struct {
	db *DB
}

func NewPersonaRepository(db *DB) *PersonaRepository {
	return &PersonaRepository{db: db}
}

func (r *PersonaRepository) Save(ctx context.Context, p *domain.Persona) error {
	if p.ID == "" {
		p.ID = newID("persona")
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	tools, err := marshalStrings(p.EnabledToolIDs)
	if err != nil {
		return wrapErr("persona.save", err)
	}

	_, err = r.db.Conn.ExecContext(ctx, `
		INSERT INTO personas (
			id, project_id, name, role, description, provider_override, model_override,
			enabled_tool_ids, is_default, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			description = excluded.description,
			provider_override = excluded.provider_override,
			model_override = excluded.model_override,
			enabled_tool_ids = excluded.enabled_tool_ids,
			is_default = excluded.is_default,
			updated_at = excluded.updated_at
	`,
		p.ID, nullableString(p.ProjectID), p.Name, nullableString(p.Role), p.Description,
		nullableString(p.ProviderOverride), nullableString(p.ModelOverride), tools,
		boolToInt(p.Default), formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	return wrapErr("persona.save", err)
}

func (r *PersonaRepository) FindOne(ctx context.Context, filter ports.PersonaFilter) (*domain.Persona, error) {
	personas, err := r.Find(ctx, filter, ports.QueryOptions{Limit: intPtr(1)})
	if err != nil {
		return nil, err
	}
	if len(personas) == 0 {
		return nil, nil
	}
	return personas[0], nil
}

var personaSortColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
}

func (r *PersonaRepository) Find(ctx context.Context, filter ports.PersonaFilter, opts ports.QueryOptions) ([]*domain.Persona, error) {
	query := `SELECT id, project_id, name, role, description, provider_override, model_override,
		enabled_tool_ids, is_default, created_at, updated_at FROM personas`
	var args []any
	switch {
	case filter.ByID != "":
		query += " WHERE id = ?"
		args = append(args, filter.ByID)
	case filter.ByProject != "":
		query += " WHERE project_id = ?"
		args = append(args, filter.ByProject)
	case filter.DefaultOf != "":
		query += " WHERE project_id = ? AND is_default = 1"
		args = append(args, filter.DefaultOf)
	}
	query += " " + buildOrderBy(opts.Sort, personaSortColumns, "ORDER BY created_at ASC")
	query, args = applyLimitOffset(query, args, opts)

	rows, err := r.db.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("persona.find", err)
	}
	defer rows.Close()

	var personas []*domain.Persona
	for rows.Next() {
		var p domain.Persona
		var projectID, role, providerOverride, modelOverride, enabledTools sql.NullString
		var isDefault int
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &projectID, &p.Name, &role, &p.Description, &providerOverride,
			&modelOverride, &enabledTools, &isDefault, &createdAt, &updatedAt); err != nil {
			return nil, wrapErr("persona.find", err)
		}
		p.ProjectID = projectID.String
		p.Role = role.String
		p.ProviderOverride = providerOverride.String
		p.ModelOverride = modelOverride.String
		p.EnabledToolIDs = unmarshalStrings(enabledTools.String)
		p.Default = isDefault != 0
		p.CreatedAt = parseTime(createdAt)
		p.UpdatedAt = parseTime(updatedAt)
		personas = append(personas, &p)
	}
	return personas, wrapErr("persona.find", rows.Err())
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
