package semgraph

import (
	"context"
	"fmt"
)

// CreatePostParams holds the fields of a new post.
type CreatePostParams struct {
	Title    string
	Content  string
	ImageURL string
	AuthorID string
}

// CreatePost stores a new post, embedding it for retrieval.
func (c *Client) CreatePost(ctx context.Context, params CreatePostParams) (Post, error) {
	p, err := c.postSvc.Create(ctx, params.Title, params.Content, params.ImageURL, params.AuthorID)
	if err != nil {
		return Post{}, fmt.Errorf("create post: %w", err)
	}
	return fromDomainPost(&p), nil
}

// Posts returns up to limit posts, newest first.
func (c *Client) Posts(ctx context.Context, limit int) ([]Post, error) {
	posts, err := c.postSvc.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	out := make([]Post, len(posts))
	for i := range posts {
		out[i] = fromDomainPost(&posts[i])
	}
	return out, nil
}
