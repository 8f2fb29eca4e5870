package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/riggerhq/rigger/internal/domain"
)

// MetricsRepository is the SQLite-backed ports.MetricsRepository, sharing
// tasks.db with every other repository. It satisfies internal/telemetry's
// Sink interface too, since the two share a method set by design.
type MetricsRepository struct {
	db *DB
}

func NewMetricsRepository(db *DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

func (r *MetricsRepository) RecordMetric(ctx context.Context, m *domain.InferenceMetric) error {
	if m.ID == "" {
		m.ID = newID("metric")
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}

	_, err := r.db.Conn.ExecContext(ctx, `
		INSERT INTO inference_metrics (
			id, timestamp, operation_type, provider, model, role, duration_millis,
			input_tokens, output_tokens, tokens_per_second, success, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.ID, formatTime(m.Timestamp), m.OperationType, m.Provider, m.Model, nullableString(m.Role),
		nullableInt64(m.DurationMillis), nullableInt(m.InputTokens), nullableInt(m.OutputTokens),
		nullableFloat64(m.TokensPerSecond), boolToInt(m.Success), nullableString(m.ErrorMessage),
	)
	return wrapErr("metrics.record", err)
}

func (r *MetricsRepository) GetAllMetrics(ctx context.Context) ([]*domain.InferenceMetric, error) {
	return r.query(ctx, "SELECT "+metricsSelectColumns+" FROM inference_metrics ORDER BY timestamp ASC")
}

func (r *MetricsRepository) GetMetricsByProvider(ctx context.Context, provider string) ([]*domain.InferenceMetric, error) {
	return r.query(ctx, "SELECT "+metricsSelectColumns+" FROM inference_metrics WHERE provider = ? ORDER BY timestamp ASC", provider)
}

func (r *MetricsRepository) GetMetricsByOperation(ctx context.Context, operation string) ([]*domain.InferenceMetric, error) {
	return r.query(ctx, "SELECT "+metricsSelectColumns+" FROM inference_metrics WHERE operation_type = ? ORDER BY timestamp ASC", operation)
}

func (r *MetricsRepository) GetMetricsByRole(ctx context.Context, role string) ([]*domain.InferenceMetric, error) {
	return r.query(ctx, "SELECT "+metricsSelectColumns+" FROM inference_metrics WHERE role = ? ORDER BY timestamp ASC", role)
}

func (r *MetricsRepository) ClearMetrics(ctx context.Context) error {
	_, err := r.db.Conn.ExecContext(ctx, "DELETE FROM inference_metrics")
	return wrapErr("metrics.clear", err)
}

const metricsSelectColumns = `
	id, timestamp, operation_type, provider, model, role, duration_millis,
	input_tokens, output_tokens, tokens_per_second, success, error_message
`

func (r *MetricsRepository) query(ctx context.Context, query string, args ...any) ([]*domain.InferenceMetric, error) {
	rows, err := r.db.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("metrics.query", err)
	}
	defer rows.Close()

	var metrics []*domain.InferenceMetric
	for rows.Next() {
		var m domain.InferenceMetric
		var timestamp string
		var role, errorMessage sql.NullString
		var durationMillis, inputTokens, outputTokens sql.NullInt64
		var tokensPerSecond sql.NullFloat64
		var success int

		if err := rows.Scan(&m.ID, &timestamp, &m.OperationType, &m.Provider, &m.Model, &role,
			&durationMillis, &inputTokens, &outputTokens, &tokensPerSecond, &success, &errorMessage); err != nil {
			return nil, wrapErr("metrics.query", err)
		}

		m.Timestamp = parseTime(timestamp)
		m.Role = role.String
		m.ErrorMessage = errorMessage.String
		m.Success = success != 0
		if durationMillis.Valid {
			v := durationMillis.Int64
			m.DurationMillis = &v
		}
		if inputTokens.Valid {
			v := int(inputTokens.Int64)
			m.InputTokens = &v
		}
		if outputTokens.Valid {
			v := int(outputTokens.Int64)
			m.OutputTokens = &v
		}
		if tokensPerSecond.Valid {
			v := tokensPerSecond.Float64
			m.TokensPerSecond = &v
		}
		metrics = append(metrics, &m)
	}
	return metrics, wrapErr("metrics.query", rows.Err())
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat64(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
