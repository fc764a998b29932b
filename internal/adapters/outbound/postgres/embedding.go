package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/pgvector/pgvector-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hausgraph/autochain/internal/domain"
	"github.com/hausgraph/autochain/internal/telemetry"
)

var (
	embeddingFields = []string{
		"device_id",
		"embedding",
		"descriptor_text",
		"model_version",
		"generated_at",
	}
)

// EmbeddingRepository implements the domain.EmbeddingRepository interface using
// PostgreSQL with the pgvector extension as the storage backend.
type EmbeddingRepository struct {
	sb           squirrel.StatementBuilderType
	timeProvider domain.CurrentTimeProvider
}

// NewEmbeddingRepository creates a new instance of EmbeddingRepository.
func NewEmbeddingRepository(br squirrel.BaseRunner, timeProvider domain.CurrentTimeProvider) EmbeddingRepository {
	return EmbeddingRepository{
		sb:           squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).RunWith(br),
		timeProvider: timeProvider,
	}
}

// Get retrieves the stored embedding for a device.
func (er EmbeddingRepository) Get(ctx context.Context, deviceID string) (domain.DeviceEmbedding, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.String("device_id", deviceID),
	))
	defer span.End()

	var (
		embedding domain.DeviceEmbedding
		vector    pgvector.Vector
	)
	err := er.sb.
		Select(
			embeddingFields...,
		).
		From("device_embeddings").
		Where(squirrel.Eq{"device_id": deviceID}).
		QueryRowContext(spanCtx).
		Scan(
			&embedding.DeviceID,
			&vector,
			&embedding.DescriptorText,
			&embedding.ModelVersion,
			&embedding.GeneratedAt,
		)

	if telemetry.RecordErrorAndStatus(span, err) {
		if err == sql.ErrNoRows {
			return domain.DeviceEmbedding{}, domain.NewNotFoundErr("embedding not found for device " + deviceID)
		}
		return domain.DeviceEmbedding{}, err
	}

	embedding.Vector = toFloat64(vector.Slice())
	return embedding, nil
}

// Upsert inserts or replaces the embedding row for embedding.DeviceID.
func (er EmbeddingRepository) Upsert(ctx context.Context, embedding domain.DeviceEmbedding) error {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.String("device_id", embedding.DeviceID),
	))
	defer span.End()

	_, err := er.sb.
		Insert("device_embeddings").
		Columns(
			embeddingFields...,
		).
		Values(
			embedding.DeviceID,
			pgvector.NewVector(toFloat32(embedding.Vector)),
			embedding.DescriptorText,
			embedding.ModelVersion,
			embedding.GeneratedAt,
		).
		Suffix(
			"ON CONFLICT (device_id) DO UPDATE SET " +
				"embedding = EXCLUDED.embedding, " +
				"descriptor_text = EXCLUDED.descriptor_text, " +
				"model_version = EXCLUDED.model_version, " +
				"generated_at = EXCLUDED.generated_at",
		).
		ExecContext(spanCtx)

	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// IsFresh reports whether the stored row for deviceID matches modelVersion and is
// younger than maxAge. A missing row is simply not fresh.
func (er EmbeddingRepository) IsFresh(ctx context.Context, deviceID string, modelVersion string, maxAge time.Duration) (bool, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.String("device_id", deviceID),
		attribute.String("model_version", modelVersion),
	))
	defer span.End()

	var (
		storedVersion string
		generatedAt   time.Time
	)
	err := er.sb.
		Select(
			"model_version",
			"generated_at",
		).
		From("device_embeddings").
		Where(squirrel.Eq{"device_id": deviceID}).
		QueryRowContext(spanCtx).
		Scan(
			&storedVersion,
			&generatedAt,
		)

	if telemetry.RecordErrorAndStatus(span, err) {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}

	cached := domain.DeviceEmbedding{ModelVersion: storedVersion, GeneratedAt: generatedAt}
	return cached.IsFresh(modelVersion, maxAge, er.timeProvider.Now().UTC()), nil
}

// All returns a device-id -> vector snapshot of every fresh embedding: matching
// model version, generated within maxAge. Stale rows are excluded in the query
// so they never feed traversal.
func (er EmbeddingRepository) All(ctx context.Context, modelVersion string, maxAge time.Duration) (map[string][]float64, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.String("model_version", modelVersion),
	))
	defer span.End()

	cutoff := er.timeProvider.Now().UTC().Add(-maxAge)
	rows, err := er.sb.
		Select(
			"device_id",
			"embedding",
		).
		From("device_embeddings").
		Where(squirrel.Eq{"model_version": modelVersion}).
		Where(squirrel.GtOrEq{"generated_at": cutoff}).
		QueryContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	vectors := map[string][]float64{}
	for rows.Next() {
		var (
			deviceID string
			vector   pgvector.Vector
		)
		err := rows.Scan(&deviceID, &vector)
		if telemetry.RecordErrorAndStatus(span, err) {
			return nil, err
		}
		vectors[deviceID] = toFloat64(vector.Slice())
	}

	if err := rows.Err(); telemetry.RecordErrorAndStatus(span, err) {
		return nil, err
	}

	span.SetAttributes(attribute.Int("vectors", len(vectors)))
	return vectors, nil
}

// Purge deletes every stored embedding and returns the number of removed rows.
func (er EmbeddingRepository) Purge(ctx context.Context) (int64, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	result, err := er.sb.
		Delete("device_embeddings").
		ExecContext(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return 0, err
	}

	purged, err := result.RowsAffected()
	if telemetry.RecordErrorAndStatus(span, err) {
		return 0, err
	}

	span.SetAttributes(attribute.Int64("purged", purged))
	return purged, nil
}

// InitEmbeddingRepository is a Symbiont initializer for EmbeddingRepository.
type InitEmbeddingRepository struct {
	DB           *sql.DB                    `resolve:""`
	TimeProvider domain.CurrentTimeProvider `resolve:""`
}

// Initialize registers the EmbeddingRepository in the dependency container.
func (ier InitEmbeddingRepository) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.EmbeddingRepository](NewEmbeddingRepository(ier.DB, ier.TimeProvider))
	return ctx, nil
}

func toFloat32(input []float64) []float32 {
	f32 := make([]float32, len(input))
	for i, v := range input {
		f32[i] = float32(v)
	}
	return f32
}

func toFloat64(input []float32) []float64 {
	f64 := make([]float64, len(input))
	for i, v := range input {
		f64[i] = float64(v)
	}
	return f64
}
