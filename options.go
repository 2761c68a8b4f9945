package semgraph

import (
	"context"

	"go.uber.org/zap"
)

// Embedder converts text to an embedding vector. Implementations typically
// wrap an embedding API client.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// ChatCompleter generates short completions for edge annotations.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// EmbeddingResult is a vector with provider usage counters.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

type clientConfig struct {
	addrs         []string
	password      string
	embedder      Embedder
	chat          ChatCompleter
	annotationBar float64
	scanLimit     int
	logger        *zap.Logger
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		annotationBar: 0.5,
		scanLimit:     100,
		logger:        zap.NewNop(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithRedis sets the Redis addresses.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) { c.addrs = addrs }
}

// WithPassword sets the database password.
func WithPassword(password string) Option {
	return func(c *clientConfig) { c.password = password }
}

// WithEmbedder sets the embedding provider. Required for search and post
// creation; read-only graph views work without one.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) { c.embedder = e }
}

// WithChatCompleter enables LLM edge annotation. Without it, edges carry
// heuristic similarity-tier labels.
func WithChatCompleter(cc ChatCompleter) Option {
	return func(c *clientConfig) { c.chat = cc }
}

// WithAnnotationBar sets the minimum similarity worth an LLM explanation.
func WithAnnotationBar(bar float64) Option {
	return func(c *clientConfig) { c.annotationBar = bar }
}

// WithScanLimit caps the number of posts the brute-force fallback reads.
func WithScanLimit(limit int) Option {
	return func(c *clientConfig) { c.scanLimit = limit }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}
