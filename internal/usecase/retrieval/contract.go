// Package retrieval selects query-similar candidates from the corpus, using
// the vector index when it is healthy and a brute-force scan when it is not.
package retrieval

import (
	"context"

	dompost "github.com/curio-social/semgraph/internal/domain/post"
	"github.com/curio-social/semgraph/internal/repository/search"
)

// Index is the indexed KNN retrieval path.
type Index interface {
	Search(ctx context.Context, vec []float32, k int) ([]search.Match, error)
}

// Corpus is the post store the fallback scan and hydration read from.
type Corpus interface {
	GetMulti(ctx context.Context, ids []string) ([]dompost.Post, error)
	ListEmbedded(ctx context.Context, limit int) ([]dompost.Post, error)
}
