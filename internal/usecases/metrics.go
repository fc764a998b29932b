package usecases

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("usecases")

	embeddingDevices metric.Int64Counter
	pathsDiscovered  metric.Int64Counter
)

func init() {
	var err error

	embeddingDevices, err = meter.Int64Counter(
		"embedding_devices_total",
		metric.WithDescription("Devices processed by embedding generation runs, by outcome"),
	)
	if err != nil {
		panic(err)
	}

	pathsDiscovered, err = meter.Int64Counter(
		"paths_discovered_total",
		metric.WithDescription("Automation-chain candidates accepted by discovery runs"),
	)
	if err != nil {
		panic(err)
	}
}

// RecordEmbeddingsGenerated records the per-outcome device counts of one
// generation run.
func RecordEmbeddingsGenerated(ctx context.Context, generated, cached, errors int) {
	embeddingDevices.Add(ctx, int64(generated), metric.WithAttributes(
		attribute.String("outcome", "generated"),
	))
	embeddingDevices.Add(ctx, int64(cached), metric.WithAttributes(
		attribute.String("outcome", "cached"),
	))
	embeddingDevices.Add(ctx, int64(errors), metric.WithAttributes(
		attribute.String("outcome", "error"),
	))
}

// RecordPathsDiscovered records the number of accepted paths of one discovery run.
func RecordPathsDiscovered(ctx context.Context, count int) {
	pathsDiscovered.Add(ctx, int64(count))
}
