package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/curio-social/semgraph/internal/db"
	"github.com/curio-social/semgraph/internal/domain"
)

// HNSWConfig carries the index build parameters from configuration.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// indexStore is the consumer interface for index management (ISP).
type indexStore interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// EnsureIndex creates the posts vector index if it does not exist yet.
// Existing indexes are left untouched; dimension changes require a manual drop.
func EnsureIndex(ctx context.Context, s indexStore, dimensions int, hnsw HNSWConfig) error {
	name := IndexName()

	exists, err := s.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     name,
		Prefixes: []string{domain.KeyPrefix + "posts:"},
		Fields: []db.IndexField{
			{
				Name:     "created_at",
				Type:     db.IndexFieldNumeric,
				Sortable: true,
			},
			{
				Name:              "vector",
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         dimensions,
				VectorDistance:    db.DistanceCosine,
				VectorM:           hnsw.M,
				VectorEFConstruct: hnsw.EFConstruct,
			},
		},
	}

	if err := s.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}
