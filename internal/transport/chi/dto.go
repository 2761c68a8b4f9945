package chi

import (
	"time"

	domgraph "github.com/curio-social/semgraph/internal/domain/graph"
	dompost "github.com/curio-social/semgraph/internal/domain/post"
)

// Error codes returned in the "code" field of error responses.
const (
	codeBadRequest             = "bad_request"
	codeValidationFailed       = "validation_failed"
	codePostNotFound           = "post_not_found"
	codeVectorDimMismatch      = "vector_dim_mismatch"
	codeEmbeddingUnavailable   = "embedding_unavailable"
	codeEmbeddingProviderError = "embedding_provider_error"
	codeChatProviderError      = "chat_provider_error"
	codeInternalError          = "internal_error"
	codeUnauthorized           = "unauthorized"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type semanticSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
	// Threshold is the documented match-threshold key; MatchThreshold is an
	// accepted alias. Threshold wins when both are present.
	Threshold      *float64 `json:"threshold,omitempty"`
	MatchThreshold *float64 `json:"match_threshold,omitempty"`
	EdgeThreshold  *float64 `json:"edge_threshold,omitempty"`
}

func (r *semanticSearchRequest) matchThreshold() *float64 {
	if r.Threshold != nil {
		return r.Threshold
	}
	return r.MatchThreshold
}

type relationshipDetailsRequest struct {
	Post1ID string `json:"post1_id"`
	Post2ID string `json:"post2_id"`
}

type relationshipDetailsResponse struct {
	Post1ID    string  `json:"post1_id"`
	Post2ID    string  `json:"post2_id"`
	Similarity float64 `json:"similarity"`
	Analysis   string  `json:"analysis"`
}

type createPostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
	AuthorID string `json:"author_id,omitempty"`
}

type postItem struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	ImageURL   string   `json:"image_url,omitempty"`
	AuthorID   string   `json:"author_id,omitempty"`
	CreatedAt  string   `json:"created_at,omitempty"`
	IsQuery    bool     `json:"is_query"`
	Similarity *float64 `json:"similarity,omitempty"`
}

type edgeItem struct {
	ID           string  `json:"id"`
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	Relationship string  `json:"relationship"`
	Similarity   float64 `json:"similarity"`
}

// graphResponse is the wire shape of an assembled graph.
type graphResponse struct {
	Posts []postItem `json:"posts"`
	Edges []edgeItem `json:"edges"`
}

type postListResponse struct {
	Posts []postItem `json:"posts"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// graphToResponse flattens a graph into the posts/edges contract. Each item
// node's similarity comes from its query edge, when one exists.
func graphToResponse(g domgraph.Graph) graphResponse {
	similarity := make(map[string]float64, len(g.Edges))
	for i := range g.Edges {
		if g.Edges[i].Kind() == domgraph.KindQueryItem {
			similarity[g.Edges[i].Target()] = g.Edges[i].Similarity()
		}
	}

	posts := make([]postItem, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		item := postItem{
			ID:       n.ID(),
			Title:    n.Title(),
			Content:  n.Content(),
			ImageURL: n.ImageURL(),
			AuthorID: n.AuthorID(),
			IsQuery:  n.IsQuery(),
		}
		if sim, ok := similarity[n.ID()]; ok {
			s := sim
			item.Similarity = &s
		}
		posts[i] = item
	}

	edges := make([]edgeItem, len(g.Edges))
	for i := range g.Edges {
		e := &g.Edges[i]
		edges[i] = edgeItem{
			ID:           e.ID(),
			Source:       e.Source(),
			Target:       e.Target(),
			Relationship: e.Relationship(),
			Similarity:   e.Similarity(),
		}
	}

	return graphResponse{Posts: posts, Edges: edges}
}

func postToItem(p *dompost.Post) postItem {
	item := postItem{
		ID:       p.ID(),
		Title:    p.Title(),
		Content:  p.Content(),
		ImageURL: p.ImageURL(),
		AuthorID: p.AuthorID(),
	}
	if !p.CreatedAt().IsZero() {
		item.CreatedAt = p.CreatedAt().UTC().Format(time.RFC3339)
	}
	return item
}
