package semgraph

import (
	"time"

	domgraph "github.com/curio-social/semgraph/internal/domain/graph"
	dompost "github.com/curio-social/semgraph/internal/domain/post"
)

// QueryNodeID is the id of the synthetic query node in search graphs.
const QueryNodeID = domgraph.QueryNodeID

// Post is a corpus item.
type Post struct {
	ID        string
	Title     string
	Content   string
	ImageURL  string
	AuthorID  string
	CreatedAt time.Time
}

// GraphPost is a node of an assembled graph. Similarity is the node's
// similarity to the query; zero for the query node and corpus-wide views.
type GraphPost struct {
	ID         string
	Title      string
	Content    string
	ImageURL   string
	AuthorID   string
	IsQuery    bool
	Similarity float64
}

// GraphEdge is a weighted, annotated connection between two graph nodes.
type GraphEdge struct {
	ID           string
	Source       string
	Target       string
	Relationship string
	Similarity   float64
}

// Graph is an assembled similarity graph.
type Graph struct {
	Posts []GraphPost
	Edges []GraphEdge
}

// RelationshipDetails is the outcome of a pairwise post analysis.
type RelationshipDetails struct {
	Post1ID    string
	Post2ID    string
	Similarity float64
	Analysis   string
}

func fromDomainPost(p *dompost.Post) Post {
	return Post{
		ID:        p.ID(),
		Title:     p.Title(),
		Content:   p.Content(),
		ImageURL:  p.ImageURL(),
		AuthorID:  p.AuthorID(),
		CreatedAt: p.CreatedAt(),
	}
}

func fromDomainGraph(g domgraph.Graph) Graph {
	similarity := make(map[string]float64, len(g.Edges))
	for i := range g.Edges {
		if g.Edges[i].Kind() == domgraph.KindQueryItem {
			similarity[g.Edges[i].Target()] = g.Edges[i].Similarity()
		}
	}

	posts := make([]GraphPost, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		posts[i] = GraphPost{
			ID:         n.ID(),
			Title:      n.Title(),
			Content:    n.Content(),
			ImageURL:   n.ImageURL(),
			AuthorID:   n.AuthorID(),
			IsQuery:    n.IsQuery(),
			Similarity: similarity[n.ID()],
		}
	}

	edges := make([]GraphEdge, len(g.Edges))
	for i := range g.Edges {
		e := &g.Edges[i]
		edges[i] = GraphEdge{
			ID:           e.ID(),
			Source:       e.Source(),
			Target:       e.Target(),
			Relationship: e.Relationship(),
			Similarity:   e.Similarity(),
		}
	}

	return Graph{Posts: posts, Edges: edges}
}
