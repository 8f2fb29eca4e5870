package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/riggerhq/rigger/internal/domain"
	"github.com/riggerhq/rigger/internal/domain/ports"
)

// ArtifactRepository is the SQLite-backed ports.ArtifactRepository. It
// stores every artifact's embedding twice on the pure-Go build: once as
// a plain BLOB column on artifacts (source of truth, returned by Find),
// and once mirrored into the rigvec0 virtual table that FindSimilar scans
// — grounded on codenerd's vec_compat.go dual-table idiom. Native
// sqlite_vec builds skip the mirror and query the BLOB column directly
// via the real extension's vec_distance_L2 function.
type ArtifactRepository struct {
	db *DB
}

func NewArtifactRepository(db *DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

func (r *ArtifactRepository) Save(ctx context.Context, a *domain.Artifact) error {
	return r.saveAll(ctx, []*domain.Artifact{a})
}

func (r *ArtifactRepository) SaveAll(ctx context.Context, artifacts []*domain.Artifact) error {
	return r.saveAll(ctx, artifacts)
}

func (r *ArtifactRepository) saveAll(ctx context.Context, artifacts []*domain.Artifact) error {
	if len(artifacts) == 0 {
		return nil
	}

	tx, err := r.db.Conn.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("artifact.save", err)
	}
	defer tx.Rollback()

	for _, a := range artifacts {
		if a.ID == "" {
			a.ID = newID("artifact")
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now().UTC()
		}

		metadata, err := marshalMetadata(a.Metadata)
		if err != nil {
			return wrapErr("artifact.save", err)
		}

		var embeddingBlob []byte
		if len(a.Embedding) > 0 {
			embeddingBlob = encodeFloat32Blob(a.Embedding)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO artifacts (
				id, project_id, source_id, source_type, content, embedding, metadata,
				binary_payload, mime_type, source_url, page_number, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				content = excluded.content,
				embedding = excluded.embedding,
				metadata = excluded.metadata
		`,
			a.ID, a.ProjectID, nullableString(a.SourceID), a.SourceType, a.Content, embeddingBlob, metadata,
			a.BinaryPayload, nullableString(a.MimeType), nullableString(a.SourceURL),
			nullableInt(a.PageNumber), formatTime(a.CreatedAt),
		)
		if err != nil {
			return wrapErr("artifact.save", fmt.Errorf("upsert artifact: %w", err))
		}

		if len(a.Embedding) > 0 {
			if err := indexArtifactEmbedding(ctx, tx, r.db.vecTable, a.ID, embeddingBlob); err != nil {
				return wrapErr("artifact.save", fmt.Errorf("index embedding: %w", err))
			}
		}
	}

	return wrapErr("artifact.save", tx.Commit())
}

func (r *ArtifactRepository) FindOne(ctx context.Context, filter ports.ArtifactFilter) (*domain.Artifact, error) {
	artifacts, err := r.Find(ctx, filter, ports.QueryOptions{Limit: intPtr(1)})
	if err != nil {
		return nil, err
	}
	if len(artifacts) == 0 {
		return nil, nil
	}
	return artifacts[0], nil
}

var artifactSortColumns = map[string]string{
	"created_at": "created_at",
}

const artifactSelectColumns = `
	id, project_id, source_id, source_type, content, embedding, metadata,
	binary_payload, mime_type, source_url, page_number, created_at
`

func (r *ArtifactRepository) Find(ctx context.Context, filter ports.ArtifactFilter, opts ports.QueryOptions) ([]*domain.Artifact, error) {
	query := "SELECT " + artifactSelectColumns + " FROM artifacts"
	var args []any
	switch {
	case filter.ByID != "":
		query += " WHERE id = ?"
		args = append(args, filter.ByID)
	case filter.ByProject != "":
		query += " WHERE project_id = ?"
		args = append(args, filter.ByProject)
	case filter.BySource != "":
		query += " WHERE source_id = ?"
		args = append(args, filter.BySource)
	}
	query += " " + buildOrderBy(opts.Sort, artifactSortColumns, "ORDER BY created_at ASC")
	query, args = applyLimitOffset(query, args, opts)

	rows, err := r.db.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("artifact.find", err)
	}
	defer rows.Close()

	var artifacts []*domain.Artifact
	for rows.Next() {
		a, err := scanArtifactRow(rows)
		if err != nil {
			return nil, wrapErr("artifact.find", err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, wrapErr("artifact.find", rows.Err())
}

func scanArtifactRow(row interface{ Scan(...any) error }) (*domain.Artifact, error) {
	var a domain.Artifact
	var sourceID, metadata, mimeType, sourceURL string
	var embeddingBlob []byte
	var pageNumber sql.NullInt64
	var createdAt string

	if err := row.Scan(&a.ID, &a.ProjectID, &sourceID, &a.SourceType, &a.Content, &embeddingBlob,
		&metadata, &a.BinaryPayload, &mimeType, &sourceURL, &pageNumber, &createdAt); err != nil {
		return nil, err
	}

	a.SourceID = sourceID
	a.Metadata = unmarshalMetadata(metadata)
	a.MimeType = mimeType
	a.SourceURL = sourceURL
	a.CreatedAt = parseTime(createdAt)
	if len(embeddingBlob) > 0 {
		a.Embedding = decodeFloat32Blob(embeddingBlob)
	}
	if pageNumber.Valid {
		v := int(pageNumber.Int64)
		a.PageNumber = &v
	}

	return &a, nil
}

// FindSimilar orders artifacts by ascending L2 distance to query, via
// whichever vector path this build was compiled with.
func (r *ArtifactRepository) FindSimilar(ctx context.Context, query []float32, limit int, threshold *float64, projectID *string) ([]ports.ScoredArtifact, error) {
	if limit <= 0 {
		limit = 10
	}
	queryBlob := encodeFloat32Blob(query)

	ids, distances, err := similarArtifactIDs(ctx, r.db.Conn, r.db.vecTable, queryBlob, limit, threshold, projectID)
	if err != nil {
		return nil, wrapErr("artifact.find_similar", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	byID := make(map[string]*domain.Artifact, len(ids))
	for _, id := range ids {
		artifact, err := r.FindOne(ctx, ports.ArtifactFilter{ByID: id})
		if err != nil {
			return nil, err
		}
		if artifact != nil {
			byID[id] = artifact
		}
	}

	var out []ports.ScoredArtifact
	for i, id := range ids {
		if a, ok := byID[id]; ok {
			out = append(out, ports.ScoredArtifact{Artifact: a, Distance: distances[i]})
		}
	}
	return out, nil
}
