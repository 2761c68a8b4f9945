// Package search implements the indexed KNN retrieval path over FT.SEARCH.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/curio-social/semgraph/internal/db"
	"github.com/curio-social/semgraph/internal/domain"
)

// store is the consumer interface for indexed search (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SupportsVectorSearch(ctx context.Context) bool
}

// Match is a single indexed hit: post id plus similarity to the query.
type Match struct {
	ID         string
	Similarity float64
}

// Repo implements the indexed retrieval contract.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Search performs a KNN vector search and returns scored post ids, ranked by
// the index. Similarity is cosine similarity clamped to [0, 1].
func (r *Repo) Search(ctx context.Context, vec []float32, k int) ([]Match, error) {
	if !r.store.SupportsVectorSearch(ctx) {
		return nil, domain.ErrVectorSearchNotSupported
	}

	q := &db.KNNQuery{
		IndexName:    IndexName(),
		Vector:       vec,
		K:            k,
		ReturnFields: []string{"__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	prefix := domain.KeyPrefix + "posts:"
	matches := make([]Match, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		matches = append(matches, Match{
			ID:         strings.TrimPrefix(entry.Key, prefix),
			Similarity: entry.Score,
		})
	}

	return matches, nil
}

// IndexName returns the FT index name for the posts corpus.
func IndexName() string {
	return domain.KeyPrefix + "posts:idx"
}
