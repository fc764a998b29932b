package domain

import (
	"context"
	"time"
)

// DeviceEmbedding is the cached semantic vector for one device, together with the
// descriptor text that produced it and the model version that generated it.
//
// An embedding is only usable for traversal while its ModelVersion matches the
// currently configured encoder and GeneratedAt is inside the freshness window.
// The model version is part of the cache key, not metadata: bumping the model turns
// every stored row into an ordinary cache miss, no migration step required.
type DeviceEmbedding struct {
	DeviceID       string
	Vector         []float64
	DescriptorText string
	ModelVersion   string
	GeneratedAt    time.Time
}

// IsFresh reports whether the embedding was produced by the given model version
// within maxAge of now.
func (de DeviceEmbedding) IsFresh(modelVersion string, maxAge time.Duration, now time.Time) bool {
	if de.ModelVersion != modelVersion {
		return false
	}
	return now.Sub(de.GeneratedAt) <= maxAge
}

// EmbeddingRepository persists one vector per device and answers freshness queries.
//
// Upsert has insert-or-replace semantics keyed on DeviceID and must be safe for
// concurrent calls on different device ids. Rows are removed only through Purge;
// traversal never writes.
type EmbeddingRepository interface {
	// Get returns the stored embedding for a device.
	// Returns a NotFoundErr when no row exists.
	Get(ctx context.Context, deviceID string) (DeviceEmbedding, error)
	// Upsert inserts or replaces the embedding row for embedding.DeviceID.
	Upsert(ctx context.Context, embedding DeviceEmbedding) error
	// IsFresh reports whether the stored row for deviceID matches modelVersion and
	// is younger than maxAge. A missing row is simply not fresh.
	IsFresh(ctx context.Context, deviceID string, modelVersion string, maxAge time.Duration) (bool, error)
	// All returns a device-id -> vector snapshot of every stored embedding that is
	// fresh: produced by the given model version within maxAge. Stale rows never
	// reach traversal. The returned map is owned by the caller; the path finder
	// reads it for a whole discovery run without further store access.
	All(ctx context.Context, modelVersion string, maxAge time.Duration) (map[string][]float64, error)
	// Purge deletes every stored embedding. Explicit cache invalidation only.
	Purge(ctx context.Context) (int64, error)
}
