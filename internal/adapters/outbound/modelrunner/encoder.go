package modelrunner

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cleitonmarx/symbiont/depend"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hausgraph/autochain/internal/common"
	"github.com/hausgraph/autochain/internal/domain"
	"github.com/hausgraph/autochain/internal/telemetry"
)

// SemanticEncoder adapts DRMAPIClient to the domain.SemanticEncoder interface.
// Every returned vector is L2-normalized so the path finder can use plain dot
// products as cosine similarity.
type SemanticEncoder struct {
	client DRMAPIClient
	model  string
}

// NewSemanticEncoder creates a new adapter for the given embedding model.
func NewSemanticEncoder(client DRMAPIClient, model string) SemanticEncoder {
	return SemanticEncoder{
		client: client,
		model:  model,
	}
}

// EncodeBatch implements domain.SemanticEncoder. Any transport or shape failure
// is reported as a ModelUnavailableErr: a partially encoded batch is useless to
// the generator.
func (se SemanticEncoder) EncodeBatch(ctx context.Context, texts []string) ([][]float64, error) {
	spanCtx, span := telemetry.Start(ctx, trace.WithAttributes(
		attribute.Int("batch_size", len(texts)),
		attribute.String("model", se.model),
	))
	defer span.End()

	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := se.client.Embeddings(spanCtx, EmbeddingsRequest{
		Model: se.model,
		Input: texts,
	})
	if telemetry.RecordErrorAndStatus(span, err) {
		return nil, domain.NewModelUnavailableErr(fmt.Sprintf("embeddings request failed: %v", err))
	}

	if len(resp.Data) != len(texts) {
		err := domain.NewModelUnavailableErr(fmt.Sprintf(
			"embeddings response has %d vectors for %d inputs", len(resp.Data), len(texts),
		))
		telemetry.RecordErrorAndStatus(span, err)
		return nil, err
	}

	vectors := make([][]float64, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(texts) {
			err := domain.NewModelUnavailableErr(fmt.Sprintf("embeddings response index %d out of range", data.Index))
			telemetry.RecordErrorAndStatus(span, err)
			return nil, err
		}
		vectors[data.Index] = data.Embedding
	}

	for i, vector := range vectors {
		if len(vector) == 0 || common.L2Norm(vector) == 0 {
			// a zero vector cannot be normalized and would be equally similar
			// to everything
			err := domain.NewModelUnavailableErr(fmt.Sprintf("embeddings response has degenerate vector for input %d", i))
			telemetry.RecordErrorAndStatus(span, err)
			return nil, err
		}
		common.Normalize(vector)
	}

	return vectors, nil
}

// ModelVersion implements domain.SemanticEncoder.
func (se SemanticEncoder) ModelVersion() string {
	return se.model
}

// InitSemanticEncoder initializes the SemanticEncoder dependency
type InitSemanticEncoder struct {
	HttpClient     *http.Client `resolve:""`
	EmbeddingHost  string       `config:"EMBEDDING_MODEL_HOST"`
	EmbeddingModel string       `config:"EMBEDDING_MODEL" default:"ai/all-minilm-l6-v2"`
}

// Initialize registers the SemanticEncoder
func (i InitSemanticEncoder) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.SemanticEncoder](NewSemanticEncoder(
		NewDRMAPIClient(i.EmbeddingHost, "", i.HttpClient),
		i.EmbeddingModel,
	))
	return ctx, nil
}
