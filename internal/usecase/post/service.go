// Package post creates and lists corpus posts, embedding them on write.
package post

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/curio-social/semgraph/internal/domain"
	dompost "github.com/curio-social/semgraph/internal/domain/post"
)

// store is the consumer interface for the post service (ISP).
type store interface {
	Upsert(ctx context.Context, p dompost.Post, vec []float32) error
	ListRecent(ctx context.Context, limit int) ([]dompost.Post, error)
}

// Service creates and lists posts.
type Service struct {
	store    store
	embedder domain.Embedder
	logger   *zap.Logger
}

// New creates the post service.
func New(s store, embedder domain.Embedder, logger *zap.Logger) *Service {
	return &Service{store: s, embedder: embedder, logger: logger}
}

// Create stores a new post with a generated id. The embedding is computed
// from title and content; an embedding failure degrades to an unembedded
// post rather than failing the write, so the corpus never loses content.
func (s *Service) Create(ctx context.Context, title, content, imageURL, authorID string) (dompost.Post, error) {
	if title == "" && content == "" {
		return dompost.Post{}, fmt.Errorf("title or content is required")
	}

	id := uuid.NewString()
	createdAt := time.Now().UTC()

	var vec []float32
	res, err := s.embedder.Embed(ctx, embeddingText(title, content))
	if err != nil {
		s.logger.Warn("Storing post without embedding",
			zap.String("post_id", id), zap.Error(err))
	} else {
		vec = res.Embedding
	}

	raw := ""
	if vec != nil {
		if b, err := json.Marshal(vec); err == nil {
			raw = string(b)
		}
	}

	p := dompost.Reconstruct(id, title, content, imageURL, authorID, createdAt, raw)
	if err := s.store.Upsert(ctx, p, vec); err != nil {
		return dompost.Post{}, fmt.Errorf("store post: %w", err)
	}
	return p, nil
}

// List returns up to limit posts, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]dompost.Post, error) {
	return s.store.ListRecent(ctx, limit)
}

func embeddingText(title, content string) string {
	if title == "" {
		return content
	}
	if content == "" {
		return title
	}
	return title + "\n\n" + content
}
