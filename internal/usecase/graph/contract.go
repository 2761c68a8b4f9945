// Package graph assembles similarity graphs from embeddings and candidates.
package graph

import (
	"context"

	dompost "github.com/curio-social/semgraph/internal/domain/post"
)

// Retriever selects query-similar candidates from the corpus.
type Retriever interface {
	Retrieve(ctx context.Context, vec []float32, threshold float64, limit int) ([]dompost.Candidate, error)
}

// Corpus is the post store the corpus-wide graph and detail lookups read from.
type Corpus interface {
	Get(ctx context.Context, id string) (dompost.Post, error)
	ListRecent(ctx context.Context, limit int) ([]dompost.Post, error)
}

// Annotator labels edges and analyzes post pairs.
type Annotator interface {
	Describe(ctx context.Context, textA, textB string, similarity float64) string
	Analyze(ctx context.Context, textA, textB string) string
}
