package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
)

// TaskRepository is the SQLite-backed ports.TaskRepository, grounded on
// the teacher's task_store.go: scanTaskRow-style row scanning, a shared
// select-columns list, transactional writes, and batch dependency
// fetches to avoid N+1 queries on Find.
type TaskRepository struct {
	db *DB
}

func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskSelectColumns = `
	id, title, description, agent_persona, due_date, status, source_prd_id,
	source_transcript_id, parent_task_id, created_at, updated_at,
	complexity_score, reasoning, completion_summary, context_files, sort_order
`

func scanTaskRow(row interface{ Scan(...any) error }) (*domain.Task, error) {
	var t domain.Task
	var agentPersona, dueDate, sourcePRDID, sourceTranscriptID, parentTaskID sql.NullString
	var createdAt, updatedAt string
	var complexityScore sql.NullInt64
	var reasoning, completionSummary sql.NullString
	var contextFiles sql.NullString
	var sortOrder sql.NullInt64

	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &agentPersona, &dueDate, &t.Status,
		&sourcePRDID, &sourceTranscriptID, &parentTaskID, &createdAt, &updatedAt,
		&complexityScore, &reasoning, &completionSummary, &contextFiles, &sortOrder,
	)
	if err != nil {
		return nil, err
	}

	t.AgentPersona = agentPersona.String
	t.DueDate = dueDate.String
	t.SourcePRDID = sourcePRDID.String
	t.SourceTranscriptID = sourceTranscriptID.String
	t.ParentTaskID = parentTaskID.String
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	t.Reasoning = reasoning.String
	t.CompletionSummary = completionSummary.String
	t.ContextFiles = unmarshalStrings(contextFiles.String)

	if complexityScore.Valid {
		v := int(complexityScore.Int64)
		t.ComplexityScore = &v
	}
	if sortOrder.Valid {
		v := int(sortOrder.Int64)
		t.SortOrder = &v
	}

	return &t, nil
}

// Save upserts a task, its dependency edges, and the owning row's
// updated_at. Child entities (enhancements, comprehension tests) live in
// their own tables and are not written here.
func (r *TaskRepository) Save(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = newID("task")
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	contextFiles, err := marshalStrings(t.ContextFiles)
	if err != nil {
		return wrapErr("task.save", err)
	}

	tx, err := r.db.Conn.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("task.save", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (
			id, title, description, agent_persona, due_date, status, source_prd_id,
			source_transcript_id, parent_task_id, created_at, updated_at,
			complexity_score, reasoning, completion_summary, context_files, sort_order
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			agent_persona = excluded.agent_persona,
			due_date = excluded.due_date,
			status = excluded.status,
			source_prd_id = excluded.source_prd_id,
			source_transcript_id = excluded.source_transcript_id,
			parent_task_id = excluded.parent_task_id,
			updated_at = excluded.updated_at,
			complexity_score = excluded.complexity_score,
			reasoning = excluded.reasoning,
			completion_summary = excluded.completion_summary,
			context_files = excluded.context_files,
			sort_order = excluded.sort_order
	`,
		t.ID, t.Title, t.Description, nullableString(t.AgentPersona), nullableString(t.DueDate),
		t.Status, nullableString(t.SourcePRDID), nullableString(t.SourceTranscriptID),
		nullableString(t.ParentTaskID), formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
		nullableInt(t.ComplexityScore), nullableString(t.Reasoning), nullableString(t.CompletionSummary),
		contextFiles, nullableInt(t.SortOrder),
	)
	if err != nil {
		return wrapErr("task.save", fmt.Errorf("upsert task: %w", err))
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_dependencies WHERE task_id = ?`, t.ID); err != nil {
		return wrapErr("task.save", fmt.Errorf("clear dependencies: %w", err))
	}
	for _, dep := range t.Dependencies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_dependencies (task_id, depends_on) VALUES (?, ?)`, t.ID, dep,
		); err != nil {
			return wrapErr("task.save", fmt.Errorf("insert dependency: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapErr("task.save", err)
	}
	return nil
}

func (r *TaskRepository) FindOne(ctx context.Context, filter ports.TaskFilter) (*domain.Task, error) {
	tasks, err := r.Find(ctx, filter, ports.QueryOptions{Limit: intPtr(1)})
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	return tasks[0], nil
}

var taskSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"status":     "status",
	"title":      "title",
	"sort_order": "sort_order",
}

func (r *TaskRepository) Find(ctx context.Context, filter ports.TaskFilter, opts ports.QueryOptions) ([]*domain.Task, error) {
	query := "SELECT " + taskSelectColumns + " FROM tasks"
	var args []any
	var where string

	switch {
	case filter.ByID != "":
		where = "WHERE id = ?"
		args = append(args, filter.ByID)
	case filter.ByStatus != "":
		where = "WHERE status = ?"
		args = append(args, filter.ByStatus)
	case filter.ByPersona != "":
		where = "WHERE agent_persona = ?"
		args = append(args, filter.ByPersona)
	case filter.ByProjectPRD != "":
		where = "WHERE source_prd_id = ?"
		args = append(args, filter.ByProjectPRD)
	case filter.All:
		// no filter
	}
	if where != "" {
		query += " " + where
	}

	query += " " + buildOrderBy(opts.Sort, taskSortColumns, "ORDER BY created_at ASC")
	query, args = applyLimitOffset(query, args, opts)

	rows, err := r.db.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("task.find", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	var ids []string
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, wrapErr("task.find", err)
		}
		tasks = append(tasks, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("task.find", err)
	}

	deps, err := r.batchGetDependencies(ctx, ids)
	if err != nil {
		return nil, wrapErr("task.find", err)
	}
	for _, t := range tasks {
		t.Dependencies = deps[t.ID]
	}

	return tasks, nil
}

// batchGetDependencies fetches dependency edges for every task ID in one
// query rather than one query per task, mirroring the teacher's
// batchGetTaskDependencies idiom.
func (r *TaskRepository) batchGetDependencies(ctx context.Context, ids []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := make([]byte, 0, len(ids)*2)
	args := make([]any, len(ids))
	for i, id := range ids {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args[i] = id
	}

	rows, err := r.db.Conn.QueryContext(ctx,
		fmt.Sprintf(`SELECT task_id, depends_on FROM task_dependencies WHERE task_id IN (%s)`, string(placeholders)),
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, dependsOn string
		if err := rows.Scan(&taskID, &dependsOn); err != nil {
			return nil, err
		}
		out[taskID] = append(out[taskID], dependsOn)
	}
	return out, rows.Err()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v int) *int { return &v }
