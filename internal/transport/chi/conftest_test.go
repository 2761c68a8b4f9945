package chi

import (
	"context"
	"net/http"
	"testing"
	"time"

	chiv5 "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	domgraph "github.com/curio-social/semgraph/internal/domain/graph"
	dompost "github.com/curio-social/semgraph/internal/domain/post"
	"github.com/curio-social/semgraph/internal/domain/search/request"
	graphuc "github.com/curio-social/semgraph/internal/usecase/graph"
	healthuc "github.com/curio-social/semgraph/internal/usecase/health"
)

// mockGraphService implements GraphService for handler tests.
type mockGraphService struct {
	graph   domgraph.Graph
	details graphuc.Details
	err     error

	lastRequest       request.Request
	lastLimit         int
	lastEdgeThreshold float64
	lastID1, lastID2  string
}

func (m *mockGraphService) Search(_ context.Context, req request.Request) (domgraph.Graph, error) {
	m.lastRequest = req
	if m.err != nil {
		return domgraph.Graph{}, m.err
	}
	return m.graph, nil
}

func (m *mockGraphService) GraphData(_ context.Context, limit int, edgeThreshold float64) (domgraph.Graph, error) {
	m.lastLimit = limit
	m.lastEdgeThreshold = edgeThreshold
	if m.err != nil {
		return domgraph.Graph{}, m.err
	}
	return m.graph, nil
}

func (m *mockGraphService) RelationshipDetails(_ context.Context, id1, id2 string) (graphuc.Details, error) {
	m.lastID1, m.lastID2 = id1, id2
	if m.err != nil {
		return graphuc.Details{}, m.err
	}
	return m.details, nil
}

// mockPostService implements PostService for handler tests.
type mockPostService struct {
	post  dompost.Post
	posts []dompost.Post
	err   error
}

func (m *mockPostService) Create(_ context.Context, title, content, imageURL, authorID string) (dompost.Post, error) {
	if m.err != nil {
		return dompost.Post{}, m.err
	}
	return m.post, nil
}

func (m *mockPostService) List(_ context.Context, _ int) ([]dompost.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.posts, nil
}

// mockHealthService implements HealthService for handler tests.
type mockHealthService struct {
	report healthuc.Report
}

func (m *mockHealthService) Check(_ context.Context) healthuc.Report {
	return m.report
}

func newTestRouter(t *testing.T, g *mockGraphService, p *mockPostService, h *mockHealthService) http.Handler {
	t.Helper()
	if g == nil {
		g = &mockGraphService{}
	}
	if p == nil {
		p = &mockPostService{}
	}
	if h == nil {
		h = &mockHealthService{report: healthuc.Report{Status: healthuc.Healthy}}
	}

	srv := NewServer(g, p, h, Defaults{GraphDataEdgeThreshold: 0.60, ListLimit: 50}, zap.NewNop())
	r := chiv5.NewRouter()
	srv.Register(r)
	return r
}

// sampleGraph is a query-centered graph with two candidates and one item edge.
func sampleGraph() domgraph.Graph {
	nodes := []domgraph.Node{
		domgraph.NewNode(domgraph.QueryNodeID, domgraph.KindQuery, "Query: test query", "test query", "", ""),
		domgraph.NewNode("a", domgraph.KindItem, "title a", "content a", "", "author-1"),
		domgraph.NewNode("b", domgraph.KindItem, "title b", "content b", "", "author-1"),
	}
	edges := []domgraph.Edge{
		domgraph.NewEdge(domgraph.QueryNodeID, "a", domgraph.KindQueryItem, 1.0, "Query: 'test query' matched this post"),
		domgraph.NewEdge(domgraph.QueryNodeID, "b", domgraph.KindQueryItem, 0.9938, "Query: 'test query' matched this post"),
		domgraph.NewEdge("a", "b", domgraph.KindItemItem, 0.9938, "High similarity - Very related topics"),
	}
	return domgraph.Graph{Nodes: nodes, Edges: edges}
}

func samplePost(id string) dompost.Post {
	return dompost.Reconstruct(id, "title "+id, "content "+id, "", "author-1",
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), "[1,0]")
}
