// Package request holds the validated semantic search parameters.
package request

import "fmt"

// Search parameter limits and defaults.
const (
	MaxQueryLength = 4096

	DefaultLimit = 50
	MaxLimit     = 200

	DefaultMatchThreshold = 0.60
	DefaultEdgeThreshold  = 0.40
)

// Request is a validated semantic search query.
type Request struct {
	query          string
	limit          int
	matchThreshold float64
	edgeThreshold  float64
}

// New validates and normalizes search parameters.
// Zero limit and negative thresholds take the defaults; out-of-range values
// are rejected rather than clamped silently.
func New(query string, limit int, matchThreshold, edgeThreshold float64) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if matchThreshold < 0 {
		matchThreshold = DefaultMatchThreshold
	}
	if edgeThreshold < 0 {
		edgeThreshold = DefaultEdgeThreshold
	}
	if matchThreshold > 1 {
		return Request{}, fmt.Errorf("threshold must be between 0 and 1")
	}
	if edgeThreshold > 1 {
		return Request{}, fmt.Errorf("edge_threshold must be between 0 and 1")
	}

	return Request{
		query:          query,
		limit:          limit,
		matchThreshold: matchThreshold,
		edgeThreshold:  edgeThreshold,
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Limit returns the maximum candidate count.
func (r *Request) Limit() int { return r.limit }

// MatchThreshold returns the query-to-item admission cutoff.
func (r *Request) MatchThreshold() float64 { return r.matchThreshold }

// EdgeThreshold returns the item-to-item edge cutoff.
func (r *Request) EdgeThreshold() float64 { return r.edgeThreshold }
