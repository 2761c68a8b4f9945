package retrieval

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	dompost "github.com/curio-social/semgraph/internal/domain/post"
	"github.com/curio-social/semgraph/internal/domain/vector"
	"github.com/curio-social/semgraph/internal/metrics"
)

// Service retrieves scored candidates for a query vector.
type Service struct {
	index     Index
	corpus    Corpus
	scanLimit int
	logger    *zap.Logger
}

// New creates the retrieval service. scanLimit caps the number of posts the
// fallback path reads from the corpus.
func New(index Index, corpus Corpus, scanLimit int, logger *zap.Logger) *Service {
	return &Service{
		index:     index,
		corpus:    corpus,
		scanLimit: scanLimit,
		logger:    logger,
	}
}

// Retrieve returns candidates with similarity strictly above threshold,
// ordered by similarity descending, at most limit entries.
//
// The indexed path is tried first. Any indexed-path failure degrades to a
// brute-force scan over stored embeddings; the request fails only if the
// scan itself cannot read the corpus.
func (s *Service) Retrieve(ctx context.Context, vec []float32, threshold float64, limit int) ([]dompost.Candidate, error) {
	candidates, err := s.retrieveIndexed(ctx, vec, threshold, limit)
	if err == nil {
		return candidates, nil
	}

	s.logger.Warn("Indexed retrieval failed, falling back to corpus scan", zap.Error(err))
	metrics.RetrievalFallbackTotal.Inc()

	return s.retrieveScan(ctx, vec, threshold, limit)
}

func (s *Service) retrieveIndexed(ctx context.Context, vec []float32, threshold float64, limit int) ([]dompost.Candidate, error) {
	matches, err := s.index.Search(ctx, vec, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(matches))
	similarity := make(map[string]float64, len(matches))
	for _, m := range matches {
		if m.Similarity <= threshold {
			continue
		}
		ids = append(ids, m.ID)
		similarity[m.ID] = m.Similarity
	}
	if len(ids) == 0 {
		return nil, nil
	}

	posts, err := s.corpus.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate matches: %w", err)
	}

	candidates := make([]dompost.Candidate, 0, len(posts))
	for _, p := range posts {
		pv, err := vector.ParseJSON(p.RawEmbedding())
		if err != nil {
			s.logger.Warn("Skipping candidate with undecodable embedding",
				zap.String("post_id", p.ID()), zap.Error(err))
			continue
		}
		candidates = append(candidates, dompost.NewCandidate(p, pv, similarity[p.ID()]))
	}

	sortCandidates(candidates)
	return truncate(candidates, limit), nil
}

func (s *Service) retrieveScan(ctx context.Context, vec []float32, threshold float64, limit int) ([]dompost.Candidate, error) {
	posts, err := s.corpus.ListEmbedded(ctx, s.scanLimit)
	if err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}

	candidates := make([]dompost.Candidate, 0, len(posts))
	for _, p := range posts {
		pv, err := vector.ParseJSON(p.RawEmbedding())
		if err != nil {
			s.logger.Warn("Skipping post with undecodable embedding",
				zap.String("post_id", p.ID()), zap.Error(err))
			continue
		}

		sim, err := vector.Cosine(vec, pv)
		if err != nil {
			s.logger.Warn("Skipping post with incompatible embedding",
				zap.String("post_id", p.ID()), zap.Error(err))
			continue
		}
		if sim <= threshold {
			continue
		}

		candidates = append(candidates, dompost.NewCandidate(p, pv, sim))
	}

	sortCandidates(candidates)
	return truncate(candidates, limit), nil
}

// sortCandidates orders by similarity descending; equal scores keep their
// corpus order (newest first on the scan path).
func sortCandidates(c []dompost.Candidate) {
	sort.SliceStable(c, func(i, j int) bool {
		return c[i].Similarity() > c[j].Similarity()
	})
}

func truncate(c []dompost.Candidate, limit int) []dompost.Candidate {
	if limit > 0 && len(c) > limit {
		return c[:limit]
	}
	return c
}
