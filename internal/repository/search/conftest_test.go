package search

import (
	"context"
	"testing"

	"github.com/curio-social/semgraph/internal/db"
)

// mockStore implements the consumer interfaces for tests.
type mockStore struct {
	supportsVectors bool

	searchResult *db.SearchResult
	searchErr    error
	lastQuery    *db.KNNQuery

	indexExists    bool
	indexExistsErr error
	createErr      error
	created        []*db.IndexDefinition
}

func (m *mockStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.lastQuery = q
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResult, nil
}

func (m *mockStore) SupportsVectorSearch(_ context.Context) bool {
	return m.supportsVectors
}

func (m *mockStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, def)
	return nil
}

func (m *mockStore) IndexExists(_ context.Context, _ string) (bool, error) {
	if m.indexExistsErr != nil {
		return false, m.indexExistsErr
	}
	return m.indexExists, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{supportsVectors: true}
	return New(ms), ms
}
