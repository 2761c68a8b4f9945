package graph

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/curio-social/semgraph/internal/domain"
	dompost "github.com/curio-social/semgraph/internal/domain/post"
	"github.com/curio-social/semgraph/internal/usecase/annotate"
)

// mockEmbedder implements domain.Embedder for tests.
type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return m.result, nil
}

// mockRetriever implements the Retriever contract for tests.
type mockRetriever struct {
	candidates []dompost.Candidate
	err        error

	lastThreshold float64
	lastLimit     int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ []float32, threshold float64, limit int) ([]dompost.Candidate, error) {
	m.lastThreshold = threshold
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.candidates, nil
}

// mockCorpus implements the Corpus contract for tests.
type mockCorpus struct {
	posts   map[string]dompost.Post
	listed  []dompost.Post
	listErr error
}

func (m *mockCorpus) Get(_ context.Context, id string) (dompost.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return dompost.Post{}, domain.ErrPostNotFound
	}
	return p, nil
}

func (m *mockCorpus) ListRecent(_ context.Context, limit int) ([]dompost.Post, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit > 0 && len(m.listed) > limit {
		return m.listed[:limit], nil
	}
	return m.listed, nil
}

// heuristicAnnotator labels edges without a chat provider.
var heuristicAnnotator = annotate.New(nil, 0.5, zap.NewNop())

func newTestService(t *testing.T, emb *mockEmbedder, ret *mockRetriever, corpus *mockCorpus) *Service {
	t.Helper()
	if corpus == nil {
		corpus = &mockCorpus{}
	}
	return New(emb, ret, corpus, heuristicAnnotator, zap.NewNop())
}

func testPost(t *testing.T, id string, vec []float32) dompost.Post {
	t.Helper()
	raw := ""
	if vec != nil {
		b, err := json.Marshal(vec)
		if err != nil {
			t.Fatalf("marshal vec: %v", err)
		}
		raw = string(b)
	}
	return dompost.Reconstruct(id, "title "+id, "content "+id, "", "author-1",
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), raw)
}

func testCandidate(t *testing.T, id string, vec []float32, sim float64) dompost.Candidate {
	t.Helper()
	return dompost.NewCandidate(testPost(t, id, vec), vec, sim)
}
