// Package semgraph is an embedded client for the semantic similarity graph
// engine: it wires the store, retrieval and assembly services in-process, for
// use without the HTTP server.
package semgraph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/curio-social/semgraph/internal/db"
	dbRedis "github.com/curio-social/semgraph/internal/db/redis"
	"github.com/curio-social/semgraph/internal/domain"
	postrepo "github.com/curio-social/semgraph/internal/repository/post"
	searchrepo "github.com/curio-social/semgraph/internal/repository/search"
	"github.com/curio-social/semgraph/internal/usecase/annotate"
	graphuc "github.com/curio-social/semgraph/internal/usecase/graph"
	postuc "github.com/curio-social/semgraph/internal/usecase/post"
	"github.com/curio-social/semgraph/internal/usecase/retrieval"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the semgraph SDK entry point.
type Client struct {
	store    db.Store
	graphSvc *graphuc.Service
	postSvc  *postuc.Service
}

// New creates a semgraph Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("semgraph: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("semgraph: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("semgraph: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	postRepo := postrepo.New(store)
	searchRepo := searchrepo.New(store)

	var domEmb domain.Embedder = noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}

	var chat domain.ChatCompleter
	if cfg.chat != nil {
		chat = &chatAdapter{inner: cfg.chat}
	}

	retrievalSvc := retrieval.New(searchRepo, postRepo, cfg.scanLimit, cfg.logger)
	annotateSvc := annotate.New(chat, cfg.annotationBar, cfg.logger)
	graphSvc := graphuc.New(domEmb, retrievalSvc, postRepo, annotateSvc, cfg.logger)
	postSvc := postuc.New(postRepo, domEmb, cfg.logger)

	return &Client{
		store:    store,
		graphSvc: graphSvc,
		postSvc:  postSvc,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// EnsureIndex creates the vector index for the configured dimensions.
// Safe to call on every startup; existing indexes are left alone.
func (c *Client) EnsureIndex(ctx context.Context, dimensions int) error {
	err := searchrepo.EnsureIndex(ctx, c.store, dimensions, searchrepo.HNSWConfig{})
	if err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// chatAdapter wraps the public ChatCompleter to satisfy internal domain.ChatCompleter.
type chatAdapter struct {
	inner ChatCompleter
}

func (a *chatAdapter) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	out, err := a.inner.Complete(ctx, system, user, maxTokens)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}
	return out, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"semgraph: embedder not configured (use WithEmbedder)",
	)
}
