package usecases

import (
	"context"
	"time"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/hausgraph/autochain/internal/domain"
	"github.com/hausgraph/autochain/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RunStats summarizes one embedding generation run.
type RunStats struct {
	Total     int           `json:"total"`
	Generated int           `json:"generated"`
	Cached    int           `json:"cached"`
	Errors    int           `json:"errors"`
	Duration  time.Duration `json:"duration"`
}

// GenerateEmbeddings defines the interface for the embedding generation use case.
type GenerateEmbeddings interface {
	// Execute refreshes the embedding store from the device catalog. With
	// forceRefresh every device is re-encoded regardless of freshness.
	//
	// Per-device failures (malformed device, store read/write) are tallied in
	// RunStats.Errors and never abort the run. A catalog fetch failure or a
	// ModelUnavailableErr from the encoder aborts and propagates: partial
	// vectors from a broken model would poison similarity search.
	Execute(ctx context.Context, forceRefresh bool) (RunStats, error)
}

// GenerateEmbeddingsImpl is the implementation of the GenerateEmbeddings use case.
type GenerateEmbeddingsImpl struct {
	catalog       domain.CatalogProvider
	encoder       domain.SemanticEncoder
	embeddingRepo domain.EmbeddingRepository
	builder       DescriptorBuilder
	timeProvider  domain.CurrentTimeProvider
	batchSize     int
	maxAge        time.Duration
}

// NewGenerateEmbeddingsImpl creates a new instance of GenerateEmbeddingsImpl.
func NewGenerateEmbeddingsImpl(
	catalog domain.CatalogProvider,
	encoder domain.SemanticEncoder,
	embeddingRepo domain.EmbeddingRepository,
	builder DescriptorBuilder,
	timeProvider domain.CurrentTimeProvider,
	batchSize int,
	maxAge time.Duration,
) GenerateEmbeddingsImpl {
	return GenerateEmbeddingsImpl{
		catalog:       catalog,
		encoder:       encoder,
		embeddingRepo: embeddingRepo,
		builder:       builder,
		timeProvider:  timeProvider,
		batchSize:     batchSize,
		maxAge:        maxAge,
	}
}

// pendingDevice is one catalog entry that needs (re)encoding.
type pendingDevice struct {
	device     domain.Device
	descriptor string
}

// Execute implements GenerateEmbeddings.
func (ge GenerateEmbeddingsImpl) Execute(ctx context.Context, forceRefresh bool) (RunStats, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.Bool("force_refresh", forceRefresh),
	))
	defer span.End()

	start := ge.timeProvider.Now()
	stats := RunStats{}
	modelVersion := ge.encoder.ModelVersion()

	devices, err := ge.catalog.ListDevices(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return stats, err
	}
	stats.Total = len(devices)

	var pending []pendingDevice
	for _, device := range devices {
		if err := device.Validate(); err != nil {
			stats.Errors++
			continue
		}

		if !forceRefresh {
			fresh, err := ge.embeddingRepo.IsFresh(spanCtx, device.ID, modelVersion, ge.maxAge)
			if err != nil {
				// freshness unknown: count the failure and regenerate, which is
				// always safe
				stats.Errors++
			} else if fresh {
				stats.Cached++
				continue
			}
		}

		// Some integrations report capabilities only through the dedicated
		// endpoint; enrich before describing so the descriptor stays complete.
		if len(device.Capabilities) == 0 {
			caps, err := ge.catalog.GetCapabilities(spanCtx, device.ID)
			if err != nil {
				stats.Errors++
			} else {
				device.Capabilities = caps
			}
		}

		pending = append(pending, pendingDevice{
			device:     device,
			descriptor: ge.builder.Build(device),
		})
	}

	batchSize := ge.batchSize
	if batchSize <= 0 {
		batchSize = 1
	}
	for offset := 0; offset < len(pending); offset += batchSize {
		batch := pending[offset:min(offset+batchSize, len(pending))]

		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = p.descriptor
		}

		vectors, err := ge.encoder.EncodeBatch(spanCtx, texts)
		if telemetry.RecordErrorAndStatus(span, err) {
			stats.Duration = ge.timeProvider.Now().Sub(start)
			return stats, err
		}
		if len(vectors) != len(batch) {
			err := domain.NewModelUnavailableErr("encoder returned a short batch")
			telemetry.RecordErrorAndStatus(span, err)
			stats.Duration = ge.timeProvider.Now().Sub(start)
			return stats, err
		}

		for i, p := range batch {
			embedding := domain.DeviceEmbedding{
				DeviceID:       p.device.ID,
				Vector:         vectors[i],
				DescriptorText: p.descriptor,
				ModelVersion:   modelVersion,
				GeneratedAt:    ge.timeProvider.Now(),
			}
			if err := ge.embeddingRepo.Upsert(spanCtx, embedding); err != nil {
				stats.Errors++
				continue
			}
			stats.Generated++
		}
	}

	stats.Duration = ge.timeProvider.Now().Sub(start)
	RecordEmbeddingsGenerated(spanCtx, stats.Generated, stats.Cached, stats.Errors)

	span.SetAttributes(
		attribute.Int("total", stats.Total),
		attribute.Int("generated", stats.Generated),
		attribute.Int("cached", stats.Cached),
		attribute.Int("errors", stats.Errors),
	)
	return stats, nil
}

// InitGenerateEmbeddings initializes the GenerateEmbeddings use case and
// registers it in the dependency container.
type InitGenerateEmbeddings struct {
	Catalog       domain.CatalogProvider     `resolve:""`
	Encoder       domain.SemanticEncoder     `resolve:""`
	EmbeddingRepo domain.EmbeddingRepository `resolve:""`
	TimeProvider  domain.CurrentTimeProvider `resolve:""`
	BatchSize     int                        `config:"EMBEDDING_BATCH_SIZE" default:"32"`
	MaxAge        time.Duration              `config:"EMBEDDING_MAX_AGE" default:"720h"`
}

// Initialize registers the GenerateEmbeddingsImpl use case in the dependency container.
func (ig InitGenerateEmbeddings) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[GenerateEmbeddings](NewGenerateEmbeddingsImpl(
		ig.Catalog,
		ig.Encoder,
		ig.EmbeddingRepo,
		NewDescriptorBuilder(),
		ig.TimeProvider,
		ig.BatchSize,
		ig.MaxAge,
	))
	return ctx, nil
}
