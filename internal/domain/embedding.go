package domain

import "context"

// BatchEmbedder vectorizes an ordered batch of texts in a single API call.
// The response preserves input order and length.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// BatchEmbeddingResult carries the embedding vectors and token usage for one batch.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}
