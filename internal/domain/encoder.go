package domain

import "context"

// SemanticEncoder defines embedding behavior in domain terms.
//
// Implementations may hold a loaded model or network client: the encoder is
// acquired once at startup and reused for the lifetime of the process.
type SemanticEncoder interface {
	// EncodeBatch maps a batch of descriptor texts to fixed-length vectors,
	// one per input, in input order. Returned vectors are L2-normalized so a
	// plain dot product equals cosine similarity downstream.
	//
	// A failure to reach or run the model surfaces as a ModelUnavailableErr;
	// callers must treat that as fatal for the whole run rather than fall back
	// to degraded vectors.
	EncodeBatch(ctx context.Context, texts []string) ([][]float64, error)
	// ModelVersion identifies the exact model/quantization in use. It is part
	// of the embedding cache key.
	ModelVersion() string
}
