package retrieval

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	dompost "github.com/curio-social/semgraph/internal/domain/post"
	"github.com/curio-social/semgraph/internal/repository/search"
)

// mockIndex implements the Index contract for tests.
type mockIndex struct {
	matches []search.Match
	err     error
	calls   int
}

func (m *mockIndex) Search(_ context.Context, _ []float32, _ int) ([]search.Match, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.matches, nil
}

// mockCorpus implements the Corpus contract for tests.
type mockCorpus struct {
	posts   []dompost.Post
	listErr error

	lastListLimit int
}

func (m *mockCorpus) GetMulti(_ context.Context, ids []string) ([]dompost.Post, error) {
	byID := make(map[string]dompost.Post, len(m.posts))
	for _, p := range m.posts {
		byID[p.ID()] = p
	}
	out := make([]dompost.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockCorpus) ListEmbedded(_ context.Context, limit int) ([]dompost.Post, error) {
	m.lastListLimit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit > 0 && len(m.posts) > limit {
		return m.posts[:limit], nil
	}
	return m.posts, nil
}

func newTestService(t *testing.T, idx *mockIndex, corpus *mockCorpus) *Service {
	t.Helper()
	return New(idx, corpus, 100, zap.NewNop())
}

// embeddedPost builds a post whose stored embedding is the JSON form of vec.
func embeddedPost(t *testing.T, id string, vec []float32) dompost.Post {
	t.Helper()
	raw, err := json.Marshal(vec)
	if err != nil {
		t.Fatalf("marshal vec: %v", err)
	}
	return dompost.Reconstruct(id, "title "+id, "content "+id, "", "author-1",
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), string(raw))
}

// brokenPost builds a post whose stored embedding cannot be decoded.
func brokenPost(id string) dompost.Post {
	return dompost.Reconstruct(id, "title "+id, "content "+id, "", "author-1",
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "{not json")
}
