package semgraph

import (
	"testing"

	domgraph "github.com/curio-social/semgraph/internal/domain/graph"
)

func TestNewRequiresAddress(t *testing.T) {
	_, err := New()
	if err == nil {
		t.Fatal("expected error without database address")
	}
}

func TestDefaultClientConfig(t *testing.T) {
	cfg := defaultClientConfig()
	if cfg.annotationBar != 0.5 {
		t.Errorf("annotationBar = %v, want 0.5", cfg.annotationBar)
	}
	if cfg.scanLimit != 100 {
		t.Errorf("scanLimit = %v, want 100", cfg.scanLimit)
	}
	if cfg.logger == nil {
		t.Error("logger should default to a no-op logger, got nil")
	}
}

func TestOptionsApply(t *testing.T) {
	cfg := defaultClientConfig()
	for _, o := range []Option{
		WithRedis("localhost:6379"),
		WithPassword("secret"),
		WithAnnotationBar(0.8),
		WithScanLimit(25),
	} {
		o(cfg)
	}

	if len(cfg.addrs) != 1 || cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v", cfg.addrs)
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q", cfg.password)
	}
	if cfg.annotationBar != 0.8 {
		t.Errorf("annotationBar = %v", cfg.annotationBar)
	}
	if cfg.scanLimit != 25 {
		t.Errorf("scanLimit = %v", cfg.scanLimit)
	}
}

func TestFromDomainGraph(t *testing.T) {
	g := domgraph.Graph{
		Nodes: []domgraph.Node{
			domgraph.NewNode(domgraph.QueryNodeID, domgraph.KindQuery, "databases", "", "", ""),
			domgraph.NewNode("a", domgraph.KindItem, "Post A", "body a", "", "alice"),
			domgraph.NewNode("b", domgraph.KindItem, "Post B", "body b", "", "bob"),
		},
		Edges: []domgraph.Edge{
			domgraph.NewEdge(domgraph.QueryNodeID, "a", domgraph.KindQueryItem, 0.91, "Query: 'databases' matched this post"),
			domgraph.NewEdge(domgraph.QueryNodeID, "b", domgraph.KindQueryItem, 0.72, "Query: 'databases' matched this post"),
			domgraph.NewEdge("b", "a", domgraph.KindItemItem, 0.55, "Moderate similarity - Related concepts"),
		},
	}

	out := fromDomainGraph(g)

	if len(out.Posts) != 3 || len(out.Edges) != 3 {
		t.Fatalf("got %d posts, %d edges", len(out.Posts), len(out.Edges))
	}

	if !out.Posts[0].IsQuery {
		t.Error("first post should be the query node")
	}
	if out.Posts[0].Similarity != 0 {
		t.Errorf("query node similarity = %v, want 0", out.Posts[0].Similarity)
	}
	if out.Posts[1].Similarity != 0.91 {
		t.Errorf("post a similarity = %v, want 0.91", out.Posts[1].Similarity)
	}
	if out.Posts[2].Similarity != 0.72 {
		t.Errorf("post b similarity = %v, want 0.72", out.Posts[2].Similarity)
	}

	// Item edge endpoints come back lexicographically ordered.
	last := out.Edges[2]
	if last.ID != "ea-b" || last.Source != "a" || last.Target != "b" {
		t.Errorf("item edge = %+v, want ea-b a->b", last)
	}
}
