package domain

import "context"

// KeyPrefix namespaces every Redis key written by semgraph.
const KeyPrefix = "semgraph:"

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// ChatCompleter produces short completions for relationship descriptions.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// HealthChecker verifies provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
