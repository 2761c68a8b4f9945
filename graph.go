package semgraph

import (
	"context"
	"fmt"

	"github.com/curio-social/semgraph/internal/domain/search/request"
)

// SearchOptions configures a semantic search.
type SearchOptions struct {
	// Limit caps the number of candidates (default 50, max 200).
	Limit int
	// MatchThreshold is the query-to-item admission cutoff (default 0.60).
	MatchThreshold float64
	// EdgeThreshold is the item-to-item edge cutoff (default 0.40).
	EdgeThreshold float64
}

// SemanticSearch embeds the query and assembles the query-centered graph.
func (c *Client) SemanticSearch(ctx context.Context, query string, opts *SearchOptions) (Graph, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}

	matchThreshold, edgeThreshold := opts.MatchThreshold, opts.EdgeThreshold
	if matchThreshold == 0 {
		matchThreshold = -1 // take the default
	}
	if edgeThreshold == 0 {
		edgeThreshold = -1
	}

	req, err := request.New(query, opts.Limit, matchThreshold, edgeThreshold)
	if err != nil {
		return Graph{}, fmt.Errorf("semantic search: %w", err)
	}

	g, err := c.graphSvc.Search(ctx, req)
	if err != nil {
		return Graph{}, fmt.Errorf("semantic search: %w", err)
	}
	return fromDomainGraph(g), nil
}

// GraphData assembles the corpus-wide graph with no query node.
func (c *Client) GraphData(ctx context.Context, limit int, edgeThreshold float64) (Graph, error) {
	if limit <= 0 {
		limit = request.DefaultLimit
	}
	if edgeThreshold <= 0 {
		edgeThreshold = 0.60
	}

	g, err := c.graphSvc.GraphData(ctx, limit, edgeThreshold)
	if err != nil {
		return Graph{}, fmt.Errorf("graph data: %w", err)
	}
	return fromDomainGraph(g), nil
}

// RelationshipDetails compares two posts in depth.
func (c *Client) RelationshipDetails(ctx context.Context, id1, id2 string) (RelationshipDetails, error) {
	d, err := c.graphSvc.RelationshipDetails(ctx, id1, id2)
	if err != nil {
		return RelationshipDetails{}, fmt.Errorf("relationship details: %w", err)
	}
	return RelationshipDetails{
		Post1ID:    id1,
		Post2ID:    id2,
		Similarity: d.Similarity,
		Analysis:   d.Analysis,
	}, nil
}
