package pubsub

import (
	"context"
	"encoding/json"
	"strconv"

	pubsubV2 "cloud.google.com/go/pubsub/v2"
	"github.com/cleitonmarx/symbiont/depend"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hausgraph/autochain/internal/domain"
	"github.com/hausgraph/autochain/internal/telemetry"
)

// PathEventPublisher implements domain.PathEventPublisher using Google Cloud Pub/Sub
type PathEventPublisher struct {
	client *pubsubV2.Client
	topic  string
}

// NewPathEventPublisher creates a new instance of PathEventPublisher
func NewPathEventPublisher(client *pubsubV2.Client, topic string) PathEventPublisher {
	return PathEventPublisher{
		client: client,
		topic:  topic,
	}
}

// PublishPaths publishes the discovery result to the configured Pub/Sub topic
func (p PathEventPublisher) PublishPaths(ctx context.Context, event domain.PathsDiscoveredEvent) error {
	spanCtx, span := telemetry.Start(ctx,
		trace.WithAttributes(
			attribute.String("run_id", event.RunID.String()),
			attribute.String("model_version", event.ModelVersion),
			attribute.Int("paths", len(event.Paths)),
			attribute.String("topic", p.topic),
		),
	)
	defer span.End()

	payload, err := json.Marshal(event)
	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}

	result := p.client.Publisher(p.topic).Publish(spanCtx, &pubsubV2.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_type":    "AUTOMATION_PATHS_DISCOVERED",
			"run_id":        event.RunID.String(),
			"model_version": event.ModelVersion,
			"paths":         strconv.Itoa(len(event.Paths)),
		},
	})

	_, err = result.Get(spanCtx)
	if telemetry.RecordErrorAndStatus(span, err) {
		return err
	}
	return nil
}

// InitPublisher initializes the PathEventPublisher implementation
type InitPublisher struct {
	Client *pubsubV2.Client `resolve:""`
	Topic  string           `config:"PUBSUB_TOPIC" default:"automation-path-events"`
}

// Initialize registers the PathEventPublisher as the implementation of domain.PathEventPublisher
func (i *InitPublisher) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.PathEventPublisher](NewPathEventPublisher(i.Client, i.Topic))
	return ctx, nil
}
