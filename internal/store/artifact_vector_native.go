//go:build sqlite_vec && cgo

package store

import (
	"context"
	"database/sql"
)

// indexArtifactEmbedding is a no-op on the native path: FindSimilar
// queries the artifacts.embedding BLOB column directly via sqlite-vec's
// vec_distance_L2, so there is no separate index table to maintain.
func indexArtifactEmbedding(ctx context.Context, tx *sql.Tx, tableName, artifactID string, embeddingBlob []byte) error {
	return nil
}

// similarArtifactIDs scans artifacts ordered by vec_distance_L2 against
// the stored embedding BLOB column.
func similarArtifactIDs(ctx context.Context, conn *sql.DB, tableName string, queryBlob []byte, limit int, threshold *float64, projectID *string) ([]string, []float64, error) {
	query := `SELECT id, ` + vectorDistanceFn + `(embedding, ?) AS dist FROM artifacts WHERE embedding IS NOT NULL`
	args := []any{queryBlob}

	if projectID != nil {
		query += ` AND project_id = ?`
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
