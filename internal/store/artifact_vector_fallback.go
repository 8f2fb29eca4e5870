//go:build !sqlite_vec || !cgo

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// indexArtifactEmbedding mirrors a saved artifact's embedding into the
// rigvec0 virtual table so FindSimilar can scan it.
func indexArtifactEmbedding(ctx context.Context, tx *sql.Tx, tableName, artifactID string, embeddingBlob []byte) error {
	_, err := tx.ExecContext(ctx, fmt.Sprintf(`INSERT INTO %s(embedding, artifact_id) VALUES (?, ?)`, tableName), embeddingBlob, artifactID)
	return err
}

// similarArtifactIDs scans rigvec0 ordered by vector_distance_l2,
// returning artifact IDs and their distances in ascending order.
func similarArtifactIDs(ctx context.Context, conn *sql.DB, tableName string, queryBlob []byte, limit int, threshold *float64, projectID *string) ([]string, []float64, error) {
	query := fmt.Sprintf(`SELECT v.artifact_id, %s(v.embedding, ?) AS dist FROM %s v`, vectorDistanceFn, tableName)
	args := []any{queryBlob}

	if projectID != nil {
		query += ` JOIN artifacts a ON a.id = v.artifact_id WHERE a.project_id = ?`
		args = append(args, *projectID)
	}
	query += ` ORDER BY dist ASC LIMIT ?`
	args = append(args, limit)

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var ids []string
	var distances []float64
	for rows.Next() {
		var id string
		var dist float64
		if err := rows.Scan(&id, &dist); err != nil {
			return nil, nil, err
		}
		if threshold != nil && dist > *threshold {
			continue
		}
		ids = append(ids, id)
		distances = append(distances, dist)
	}
	return ids, distances, rows.Err()
}
