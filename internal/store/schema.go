// Package store is the embedded relational + vector persistence layer:
// a single SQLite file holding every entity plus telemetry, grounded on
// the teacher's internal/memory/sqlite.go raw-SQL schema and
// connect_and_init idempotency idiom.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS prds (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	title TEXT NOT NULL,
	objectives TEXT,
	tech_stack TEXT,
	constraints TEXT,
	raw_markdown TEXT,
	created_at TEXT NOT NULL,
	FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS personas (
	id TEXT PRIMARY KEY,
	project_id TEXT,
	name TEXT NOT NULL,
	role TEXT,
	description TEXT,
	provider_override TEXT,
	model_override TEXT,
	enabled_tool_ids TEXT,
	is_default INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	agent_persona TEXT,
	due_date TEXT,
	status TEXT NOT NULL,
	source_prd_id TEXT,
	source_transcript_id TEXT,
	parent_task_id TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	complexity_score INTEGER,
	reasoning TEXT,
	completion_summary TEXT,
	context_files TEXT,
	sort_order INTEGER,
	FOREIGN KEY (source_prd_id) REFERENCES prds(id) ON DELETE SET NULL,
	FOREIGN KEY (parent_task_id) REFERENCES tasks(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS task_dependencies (
	task_id TEXT NOT NULL,
	depends_on TEXT NOT NULL,
	PRIMARY KEY (task_id, depends_on),
	FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS enhancements (
	id TEXT PRIMARY KEY,
	task_id TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	type TEXT,
	content TEXT,
	FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS comprehension_tests (
	id TEXT PRIMARY KEY,
	task_id TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	type TEXT NOT NULL,
	question TEXT NOT NULL,
	options TEXT,
	correct_answer TEXT NOT NULL,
	FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS artifacts (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	source_id TEXT,
	source_type TEXT NOT NULL,
	content TEXT,
	embedding BLOB,
	metadata TEXT,
	binary_payload BLOB,
	mime_type TEXT,
	source_url TEXT,
	page_number INTEGER,
	created_at TEXT NOT NULL,
	FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS inference_metrics (
	id TEXT PRIMARY KEY,
	timestamp TEXT NOT NULL,
	operation_type TEXT NOT NULL,
	provider TEXT NOT NULL,
	model TEXT NOT NULL,
	role TEXT,
	duration_millis INTEGER,
	input_tokens INTEGER,
	output_tokens INTEGER,
	tokens_per_second REAL,
	success INTEGER NOT NULL,
	error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_task_id);
CREATE INDEX IF NOT EXISTS idx_tasks_source_prd ON tasks(source_prd_id);
CREATE INDEX IF NOT EXISTS idx_prds_project ON prds(project_id);
CREATE INDEX IF NOT EXISTS idx_personas_project ON personas(project_id);
CREATE INDEX IF NOT EXISTS idx_artifacts_project ON artifacts(project_id);
CREATE INDEX IF NOT EXISTS idx_metrics_provider ON inference_metrics(provider);
CREATE INDEX IF NOT EXISTS idx_metrics_operation ON inference_metrics(operation_type);
CREATE INDEX IF NOT EXISTS idx_metrics_role ON inference_metrics(role);
`

// DB wraps the shared *sql.DB connection pool plus whatever vector search
// path (native sqlite-vec or pure-Go fallback) was registered for this
// process. See vector_native.go / vector_fallback.go.
type DB struct {
	Conn *sql.DB

	// vecTable is this DB's private rigvec0 virtual table name (pure-Go
	// build only). The vtab module's table registry is process-global,
	// so a fixed name would leak rows between independently opened DB
	// instances (e.g. two in-process test databases); a per-instance
	// name keeps them isolated.
	vecTable string
}

var vecTableSeq atomic.Int64

// Connect opens (creating if absent) the SQLite file at path, enables
// foreign keys, sets the configured pool size, and idempotently
// initializes the schema. Safe to call repeatedly (CREATE TABLE IF NOT
// EXISTS), per spec.md's connect_and_init contract.
func Connect(path string, poolSize int) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	if poolSize > 0 {
		conn.SetMaxOpenConns(poolSize)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}

	db := &DB{Conn: conn, vecTable: fmt.Sprintf("rigvec0_%d", vecTableSeq.Add(1))}
	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) init() error {
	if _, err := db.Conn.Exec(schema); err != nil {
		return fmt.Errorf("store: init schema: %w", err)
	}
	if err := registerVectorSupport(db.Conn, db.vecTable); err != nil {
		return fmt.Errorf("store: register vector support: %w", err)
	}
	return nil
}

// SetAutoVacuum toggles PRAGMA auto_vacuum per database.auto_vacuum.
func (db *DB) SetAutoVacuum(enabled bool) error {
	mode := "NONE"
	if enabled {
		mode = "FULL"
	}
	_, err := db.Conn.Exec(fmt.Sprintf("PRAGMA auto_vacuum = %s", mode))
	return err
}

func (db *DB) Close() error {
	return db.Conn.Close()
}
