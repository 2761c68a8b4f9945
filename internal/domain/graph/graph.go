// Package graph holds the similarity graph value objects.
package graph

import "fmt"

// QueryNodeID is the reserved id of the per-request query node.
// Post ids are UUIDs, so the sentinel cannot collide with a real item.
const QueryNodeID = "query_node"

// NodeKind distinguishes the query node from corpus items.
type NodeKind string

const (
	// KindQuery marks the synthetic query node.
	KindQuery NodeKind = "query"
	// KindItem marks a corpus item node.
	KindItem NodeKind = "item"
)

// EdgeKind distinguishes query edges from item-to-item edges.
type EdgeKind string

const (
	// KindQueryItem marks a query-to-item edge.
	KindQueryItem EdgeKind = "query-item"
	// KindItemItem marks an item-to-item edge.
	KindItemItem EdgeKind = "item-item"
)

// Node is a graph node with its display payload.
type Node struct {
	id       string
	kind     NodeKind
	title    string
	content  string
	imageURL string
	authorID string
}

// NewNode creates a graph node.
func NewNode(id string, kind NodeKind, title, content, imageURL, authorID string) Node {
	return Node{id: id, kind: kind, title: title, content: content, imageURL: imageURL, authorID: authorID}
}

// ID returns the node identifier.
func (n *Node) ID() string { return n.id }

// Kind returns the node kind.
func (n *Node) Kind() NodeKind { return n.kind }

// IsQuery reports whether this is the query node.
func (n *Node) IsQuery() bool { return n.kind == KindQuery }

// Title returns the display title.
func (n *Node) Title() string { return n.title }

// Content returns the display content.
func (n *Node) Content() string { return n.content }

// ImageURL returns the attached image URL, if any.
func (n *Node) ImageURL() string { return n.imageURL }

// AuthorID returns the author identifier, empty for the query node.
func (n *Node) AuthorID() string { return n.authorID }

// Edge is a weighted, annotated connection between two nodes.
type Edge struct {
	id           string
	source       string
	target       string
	kind         EdgeKind
	similarity   float64
	relationship string
}

// NewEdge creates an edge. Item-to-item endpoints are ordered
// lexicographically so the edge id is stable across runs; the query edge
// always sources from the query node.
func NewEdge(source, target string, kind EdgeKind, similarity float64, relationship string) Edge {
	if kind == KindItemItem && target < source {
		source, target = target, source
	}
	return Edge{
		id:     EdgeID(source, target),
		source: source, target: target,
		kind: kind, similarity: similarity, relationship: relationship,
	}
}

// EdgeID derives the deterministic edge id from the ordered endpoint pair.
func EdgeID(source, target string) string {
	return fmt.Sprintf("e%s-%s", source, target)
}

// ID returns the edge identifier.
func (e *Edge) ID() string { return e.id }

// Source returns the source node id.
func (e *Edge) Source() string { return e.source }

// Target returns the target node id.
func (e *Edge) Target() string { return e.target }

// Kind returns the edge kind.
func (e *Edge) Kind() EdgeKind { return e.kind }

// Similarity returns the edge weight.
func (e *Edge) Similarity() float64 { return e.similarity }

// Relationship returns the human-readable edge label.
func (e *Edge) Relationship() string { return e.relationship }

// Graph is the assembled result: nodes (query node first) plus edges.
type Graph struct {
	Nodes []Node
	Edges []Edge
}
