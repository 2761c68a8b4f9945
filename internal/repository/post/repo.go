// Package post persists the corpus of posts as Redis hashes.
package post

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/curio-social/semgraph/internal/domain"
	dompost "github.com/curio-social/semgraph/internal/domain/post"
)

// store is the consumer interface for posts (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements corpus access for the graph and post services.
type Repo struct {
	store store
}

// New creates a post repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Upsert stores a post. When vec is non-nil, both the raw JSON embedding and
// the binary blob the vector index reads are written.
func (r *Repo) Upsert(ctx context.Context, p dompost.Post, vec []float32) error {
	key := postKey(p.ID())
	fields := buildFields(p, vec)

	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Get returns a post by ID.
func (r *Repo) Get(ctx context.Context, id string) (dompost.Post, error) {
	key := postKey(id)
	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return dompost.Post{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return dompost.Post{}, domain.ErrPostNotFound
	}
	return parseFields(id, fields), nil
}

// GetMulti returns the posts for the given ids, silently skipping missing ones.
func (r *Repo) GetMulti(ctx context.Context, ids []string) ([]dompost.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = postKey(id)
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}

	posts := make([]dompost.Post, 0, len(ids))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		posts = append(posts, parseFields(ids[i], m))
	}
	return posts, nil
}

// ListRecent returns up to limit posts ordered by creation time, newest first.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]dompost.Post, error) {
	posts, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// ListEmbedded returns up to limit posts that carry a stored embedding,
// newest first. This is the corpus the brute-force retrieval path scans, so
// its ordering defines the tie-break order of equal-similarity candidates.
func (r *Repo) ListEmbedded(ctx context.Context, limit int) ([]dompost.Post, error) {
	posts, err := r.listAll(ctx)
	if err != nil {
		return nil, err
	}

	embedded := posts[:0]
	for _, p := range posts {
		if p.HasEmbedding() {
			embedded = append(embedded, p)
		}
	}
	if limit > 0 && len(embedded) > limit {
		embedded = embedded[:limit]
	}
	return embedded, nil
}

func (r *Repo) listAll(ctx context.Context) ([]dompost.Post, error) {
	pattern := keyPrefix() + "*"
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", pattern, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	// SCAN order is unspecified; sort keys first so DoMulti batching is stable.
	sort.Strings(keys)

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}

	posts := make([]dompost.Post, 0, len(keys))
	for i, m := range maps {
		if len(m) == 0 {
			continue
		}
		posts = append(posts, parseFields(extractPostID(keys[i]), m))
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt().After(posts[j].CreatedAt())
	})

	return posts, nil
}

func keyPrefix() string {
	return domain.KeyPrefix + "posts:"
}

func postKey(id string) string {
	return keyPrefix() + id
}

func extractPostID(key string) string {
	return strings.TrimPrefix(key, keyPrefix())
}
